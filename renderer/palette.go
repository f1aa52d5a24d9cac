// Package renderer draws the committed particle buffer with raylib.
package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// Palette maps colour indices to display colours. Display hue is purely
// cosmetic; the simulation only ever sees the index.
type Palette []rl.Color

// NewPalette builds an HSV wheel palette with one hue per colour type.
func NewPalette(colours int) Palette {
	p := make(Palette, colours)
	for i := range p {
		hue := float32(i) / float32(colours) * 360
		p[i] = rl.ColorFromHSV(hue, 0.85, 1.0)
	}
	return p
}
