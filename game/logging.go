package game

import (
	"fmt"
	"io"
	"time"

	"github.com/azzamunza/particle-life/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats dumps the current perf window in human-readable form.
func (g *Game) LogPerfStats() {
	stats := g.perf.Stats()
	Logf("=== Perf @ Tick %d (speed %dx) ===", g.tick, g.stepsPerFrame)
	Logf("Avg tick: %s (%d ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), int(stats.TicksPerSecond))

	for _, phase := range []string{
		telemetry.PhaseGridReset, telemetry.PhaseGridBuild,
		telemetry.PhaseIntegrate, telemetry.PhaseTelemetry,
	} {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		Logf("  %-12s %10s  %5.1f%%", phase, avg.Round(time.Microsecond), stats.PhasePct[phase])
	}
	Logf("")
}

// LogWorldState dumps a snapshot of the particle population.
func (g *Game) LogWorldState() {
	ws := telemetry.SampleWindow(g.tick, g.simTime, g.engine.Front(), g.engine.Grid())
	p := g.engine.Params()

	Logf("=== Tick %d (t=%.1fs) ===", g.tick, g.simTime)
	Logf("Particles: %d, Colours: %d", ws.Particles, p.Colours)
	Logf("Speed: %.3f avg, %.3f p90, %.3f max | KE: %.1f",
		ws.SpeedMean, ws.SpeedP90, ws.SpeedMax, ws.KineticEnergy)
	Logf("Grid: %d occupied cells, %.1f avg occupancy, %d max",
		ws.OccupiedCells, ws.CellOccMean, ws.CellOccMax)
	Logf("")
}
