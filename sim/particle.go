// Package sim implements the particle life simulation core: a lock-free
// spatial grid rebuilt every tick, a pairwise force integrator driven by a
// colour interaction matrix, and a double-buffered engine that runs both as
// data-parallel work over a persistent worker pool.
package sim

import "math/rand"

// Particle is one simulated point: position and velocity packed as a
// 4-float record. Identity is the array index; the colour index lives in a
// parallel array and never changes after initialization.
type Particle struct {
	X, Y   float32
	VX, VY float32
}

// SpawnUniform fills particles with positions uniformly distributed in
// [-half, half]² and zero velocity, and colours with uniform indices in
// [0, colourCount).
func SpawnUniform(particles []Particle, colours []uint32, colourCount uint32, half float32, rng *rand.Rand) {
	for i := range particles {
		particles[i] = Particle{
			X: (rng.Float32()*2 - 1) * half,
			Y: (rng.Float32()*2 - 1) * half,
		}
	}
	for i := range colours {
		colours[i] = uint32(rng.Intn(int(colourCount)))
	}
}
