// Package game drives the simulation: it owns the engine, renderer, and
// telemetry, runs the per-frame loop, and applies user input between ticks.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/azzamunza/particle-life/config"
	"github.com/azzamunza/particle-life/renderer"
	"github.com/azzamunza/particle-life/sim"
	"github.com/azzamunza/particle-life/telemetry"
)

// Options configures game creation.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete application state.
type Game struct {
	engine  *sim.Engine
	rng     *rand.Rand
	palette renderer.Palette
	prender *renderer.ParticleRenderer

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	opts Options

	tick           int32
	simTime        float64
	paused         bool
	stepOnce       bool
	stepsPerFrame  int
	showPanel      bool
	matrixPreset   string
	lastWindowTick int32
}

// NewGameWithOptions creates a game, seeds the particle state, and builds
// the interaction matrix from config.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		rng:           rand.New(rand.NewSource(opts.Seed)),
		opts:          opts,
		stepsPerFrame: opts.StepsPerUpdate,
		matrixPreset:  cfg.Matrix.Preset,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}

	params := paramsFromConfig(cfg)
	matrix := g.buildMatrix(cfg)

	g.engine = sim.NewEngine(cfg.Sim.Particles, params, matrix)
	sim.SpawnUniform(g.engine.Front(), g.engine.Colours(), params.Colours, params.Half, g.rng)

	if !opts.Headless {
		g.palette = renderer.NewPalette(cfg.Sim.Colours)
		g.prender = renderer.NewParticleRenderer(
			cfg.Derived.Half32, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, cfg.Derived.Scale)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else {
		g.output = om
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	return g
}

// paramsFromConfig converts the YAML view of the parameters into the
// engine's packed-record view.
func paramsFromConfig(cfg *config.Config) sim.Params {
	border := sim.BorderReflect
	if cfg.Sim.Border == "wrap" {
		border = sim.BorderWrap
	}
	return sim.Params{
		Colours:   uint32(cfg.Sim.Colours),
		Radius:    float32(cfg.Sim.Radius),
		Force:     float32(cfg.Sim.Force),
		Friction:  float32(cfg.Sim.Friction),
		Beta:      float32(cfg.Sim.Beta),
		DT:        float32(cfg.Sim.DT),
		Avoidance: float32(cfg.Sim.Avoidance),
		Half:      float32(cfg.Sim.WorldHalfSize),
		Border:    border,
		Vortex:    cfg.Sim.Vortex,
	}
}

// buildMatrix constructs the interaction matrix from config: an explicit
// JSON file wins, otherwise the named preset.
func (g *Game) buildMatrix(cfg *config.Config) *sim.Matrix {
	if cfg.Matrix.Path != "" {
		m, err := sim.LoadMatrix(cfg.Matrix.Path)
		if err != nil {
			slog.Error("failed to load matrix, falling back to preset", "error", err)
		} else if m.Colours != cfg.Sim.Colours {
			slog.Error("matrix colour count mismatch, falling back to preset",
				"matrix", m.Colours, "config", cfg.Sim.Colours)
		} else {
			return m
		}
	}
	return g.generateMatrix(cfg.Matrix.Preset, cfg)
}

// generateMatrix builds a matrix for the given preset name.
func (g *Game) generateMatrix(preset string, cfg *config.Config) *sim.Matrix {
	m := sim.NewMatrix(cfg.Sim.Colours)
	seed := cfg.Matrix.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}
	switch preset {
	case "symmetric":
		m.RandomizeSymmetric(g.rng)
	case "snakes":
		m.RandomizeSnakes()
	case "perlin":
		m.RandomizePerlin(cfg.Matrix.NoiseScale, seed)
	default:
		m.Randomize(g.rng)
	}
	return m
}

// Update runs input handling and one or more simulation steps.
func (g *Game) Update() {
	g.handleInput()

	if g.paused && !g.stepOnce {
		g.perf.RecordFrame()
		return
	}
	g.stepOnce = false

	for i := 0; i < g.stepsPerFrame; i++ {
		g.simulationStep()
	}
	g.perf.RecordFrame()
}

// UpdateHeadless runs simulation steps without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerFrame; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single engine tick plus telemetry bookkeeping.
func (g *Game) simulationStep() {
	g.perf.StartTick()

	g.engine.Tick()
	t := g.engine.Timing()
	g.perf.AddPhase(telemetry.PhaseGridReset, t.GridReset)
	g.perf.AddPhase(telemetry.PhaseGridBuild, t.GridBuild)
	g.perf.AddPhase(telemetry.PhaseIntegrate, t.Integrate)

	g.tick++
	g.simTime += float64(g.engine.Params().DT)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.updateTelemetry()
	g.perf.EndTick()
}

// updateTelemetry emits window stats at each stats-window boundary.
func (g *Game) updateTelemetry() {
	windowTicks := int32(g.opts.StatsWindowSec / float64(g.engine.Params().DT))
	if windowTicks <= 0 || g.tick-g.lastWindowTick < windowTicks {
		return
	}
	g.lastWindowTick = g.tick

	ws := telemetry.SampleWindow(g.tick, g.simTime, g.engine.Front(), g.engine.Grid())
	perfStats := g.perf.Stats()

	if g.opts.LogStats {
		ws.LogStats()
		perfStats.LogStats()
	}
	if err := g.output.WriteStats(ws); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.prender.Draw(g.engine.Front(), g.engine.Colours(), g.palette)

	g.drawHUD()
	if g.showPanel {
		g.drawControlPanel()
	}

	rl.EndDrawing()
}

// drawHUD draws the status line.
func (g *Game) drawHUD() {
	p := g.engine.Params()
	border := "reflect"
	if p.Border == sim.BorderWrap {
		border = "wrap"
	}
	rl.DrawText(fmt.Sprintf("Tick: %d  FPS: %d", g.tick, rl.GetFPS()), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Particles: %d  Colours: %d  Matrix: %s", g.engine.N(), p.Colours, g.matrixPreset), 10, 35, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Border: %s  Vortex: %v  Speed: %dx  [</>]", border, p.Vortex, g.stepsPerFrame), 10, 60, 20, rl.White)
	if g.paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Yellow)
	}
}

// Unload releases resources and flushes outputs.
func (g *Game) Unload() {
	g.engine.Stop()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}
