package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/azzamunza/particle-life/config"
	"github.com/azzamunza/particle-life/sim"
)

// handleInput processes keyboard input. All parameter and matrix changes
// happen here, between ticks, never while a dispatch is in flight.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.stepOnce = true
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerFrame > 1 {
		g.stepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerFrame < 10 {
		g.stepsPerFrame++
	}

	// Matrix controls
	if rl.IsKeyPressed(rl.KeyR) {
		g.engine.SetMatrix(g.generateMatrix(g.matrixPreset, config.Cfg()))
		Logf("matrix randomized (%s)", g.matrixPreset)
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.matrixPreset = nextPreset(g.matrixPreset)
		g.engine.SetMatrix(g.generateMatrix(g.matrixPreset, config.Cfg()))
		Logf("matrix preset: %s", g.matrixPreset)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if err := g.engine.Matrix().Save("matrix.json"); err != nil {
			Logf("matrix save failed: %v", err)
		} else {
			Logf("matrix saved to matrix.json")
		}
	}
	if rl.IsKeyPressed(rl.KeyX) {
		m := g.engine.Matrix()
		m.Mutate(g.rng, 0.1)
		g.engine.SetMatrix(m)
		Logf("matrix mutated")
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.LogPerfStats()
		g.LogWorldState()
	}

	// Boundary and vortex toggles
	if rl.IsKeyPressed(rl.KeyB) {
		p := g.engine.Params()
		if p.Border == sim.BorderWrap {
			p.Border = sim.BorderReflect
		} else {
			p.Border = sim.BorderWrap
		}
		g.engine.SetParams(p)
	}
	if rl.IsKeyPressed(rl.KeyV) {
		p := g.engine.Params()
		p.Vortex = !p.Vortex
		g.engine.SetParams(p)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanel = !g.showPanel
	}
}

// nextPreset cycles through the matrix generators.
func nextPreset(p string) string {
	switch p {
	case "random":
		return "symmetric"
	case "symmetric":
		return "snakes"
	case "snakes":
		return "perlin"
	default:
		return "random"
	}
}
