package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawControlPanel renders the raygui parameter sliders. Slider changes
// produce a new parameter snapshot applied via SetParams, so they take
// effect on the next tick; the engine re-provisions its grid if the
// radius moves past the current cell sizing.
func (g *Game) drawControlPanel() {
	p := g.engine.Params()
	changed := false

	panelX := float32(10)
	panelY := float32(120)
	width := float32(220)

	rl.DrawRectangle(int32(panelX)-5, int32(panelY)-5, int32(width)+60, 6*38+10, rl.Fade(rl.Black, 0.6))

	slider := func(label string, value, min, max float32) float32 {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 16
		v := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: width - 50, Height: 16},
			"", "",
			value, min, max,
		)
		rl.DrawText(fmt.Sprintf("%.2f", v), int32(panelX+width-40), int32(panelY), 14, rl.LightGray)
		panelY += 22
		return v
	}

	if v := slider("Radius", p.Radius, 1, 50); v != p.Radius {
		p.Radius = v
		changed = true
	}
	if v := slider("Force", p.Force, 0, 5); v != p.Force {
		p.Force = v
		changed = true
	}
	if v := slider("Friction", p.Friction, 0, 1); v != p.Friction {
		p.Friction = v
		changed = true
	}
	if v := slider("Beta", p.Beta, 0.01, 0.99); v != p.Beta {
		p.Beta = v
		changed = true
	}
	if v := slider("Time step", p.DT, 0.001, 0.1); v != p.DT {
		p.DT = v
		changed = true
	}
	if v := slider("Avoidance", p.Avoidance, 0, p.Radius); v != p.Avoidance {
		p.Avoidance = v
		changed = true
	}

	if changed {
		g.engine.SetParams(p)
	}
}
