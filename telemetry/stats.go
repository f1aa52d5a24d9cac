package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/azzamunza/particle-life/sim"
)

// WindowStats holds aggregated population statistics for a time window,
// sampled from the committed particle buffer at the window boundary.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	Particles int `csv:"particles"`

	// Velocity distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Total kinetic energy (unit mass per particle)
	KineticEnergy float64 `csv:"kinetic_energy"`

	// Spatial grid occupancy at window end
	OccupiedCells int     `csv:"occupied_cells"`
	CellOccMean   float64 `csv:"cell_occ_mean"` // particles per occupied cell
	CellOccMax    int     `csv:"cell_occ_max"`
}

// SampleWindow computes window statistics from the front buffer and the
// grid left behind by the last tick.
func SampleWindow(tick int32, simTime float64, particles []sim.Particle, g *sim.Grid) WindowStats {
	ws := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    simTime,
		Particles:     len(particles),
	}
	if len(particles) == 0 {
		return ws
	}

	speeds := make([]float64, len(particles))
	var kinetic float64
	for i := range particles {
		p := &particles[i]
		v2 := float64(p.VX)*float64(p.VX) + float64(p.VY)*float64(p.VY)
		speeds[i] = math.Sqrt(v2)
		kinetic += 0.5 * v2
	}
	ws.KineticEnergy = kinetic

	ws.SpeedMean = stat.Mean(speeds, nil)
	ws.SpeedStd = stat.StdDev(speeds, nil)
	sort.Float64s(speeds)
	ws.SpeedP50 = stat.Quantile(0.5, stat.Empirical, speeds, nil)
	ws.SpeedP90 = stat.Quantile(0.9, stat.Empirical, speeds, nil)
	ws.SpeedMax = speeds[len(speeds)-1]

	ws.OccupiedCells, ws.CellOccMean, ws.CellOccMax = occupancy(g)
	return ws
}

// occupancy walks every cell chain and reports how particles spread over
// the grid. High max occupancy is the main throughput hazard: the force
// kernel is quadratic in per-cell density.
func occupancy(g *sim.Grid) (occupied int, mean float64, max int) {
	dim := g.Dim()
	var total int
	for cy := int32(0); cy < dim; cy++ {
		for cx := int32(0); cx < dim; cx++ {
			count := 0
			for j := g.Head(cx, cy); j != sim.EmptyCell; j = g.Next(j) {
				count++
			}
			if count == 0 {
				continue
			}
			occupied++
			total += count
			if count > max {
				max = count
			}
		}
	}
	if occupied > 0 {
		mean = float64(total) / float64(occupied)
	}
	return occupied, mean, max
}

// LogStats logs the window statistics via slog.
func (ws WindowStats) LogStats() {
	slog.Info("window_stats",
		"tick", ws.WindowEndTick,
		"sim_time", ws.SimTimeSec,
		"particles", ws.Particles,
		"speed_mean", ws.SpeedMean,
		"speed_p90", ws.SpeedP90,
		"kinetic_energy", ws.KineticEnergy,
		"occupied_cells", ws.OccupiedCells,
		"cell_occ_max", ws.CellOccMax,
	)
}
