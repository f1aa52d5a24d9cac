package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/azzamunza/particle-life/sim"
)

// ParticleRenderer projects world coordinates onto the screen and draws
// every particle from the front buffer. It only ever reads the buffer the
// engine reported as committed, so it can run between ticks without
// synchronization.
type ParticleRenderer struct {
	half    float32 // world half-size
	scale   float32 // pixels per world unit
	offsetX float32 // screen-space centering offsets
	offsetY float32
	size    float32 // particle quad size in pixels
}

// NewParticleRenderer creates a renderer fitting the world square
// [-half, half]² into the given screen, centered.
func NewParticleRenderer(half, screenW, screenH, scale float32) *ParticleRenderer {
	size := scale * 1.5
	if size < 1 {
		size = 1
	}
	return &ParticleRenderer{
		half:    half,
		scale:   scale,
		offsetX: (screenW - 2*half*scale) / 2,
		offsetY: (screenH - 2*half*scale) / 2,
		size:    size,
	}
}

// SetWorld updates the projection after a world-size change.
func (r *ParticleRenderer) SetWorld(half, screenW, screenH, scale float32) {
	*r = *NewParticleRenderer(half, screenW, screenH, scale)
}

// Draw renders all particles coloured by their type index.
func (r *ParticleRenderer) Draw(particles []sim.Particle, colours []uint32, palette Palette) {
	for i := range particles {
		p := &particles[i]
		sx := (p.X + r.half) * r.scale
		sy := (p.Y + r.half) * r.scale
		rl.DrawRectangleRec(rl.Rectangle{
			X:      sx + r.offsetX,
			Y:      sy + r.offsetY,
			Width:  r.size,
			Height: r.size,
		}, palette[colours[i]])
	}

	// World boundary
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      r.offsetX,
		Y:      r.offsetY,
		Width:  2 * r.half * r.scale,
		Height: 2 * r.half * r.scale,
	}, 1, rl.DarkGray)
}
