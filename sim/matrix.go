package sim

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/aquilax/go-perlin"
)

// Matrix is the (colour A, colour B) → coefficient mapping, row-major,
// Colours² entries in [-1,1]. Read-only during a tick; the host may swap
// it wholesale between ticks. It need not be symmetric: A chasing B while
// B flees A is a legitimate configuration.
type Matrix struct {
	Colours int
	Coeffs  []float32
}

// NewMatrix allocates a zero matrix for the given colour count.
func NewMatrix(colours int) *Matrix {
	return &Matrix{
		Colours: colours,
		Coeffs:  make([]float32, colours*colours),
	}
}

// At returns the coefficient for the (a, b) colour pair.
func (m *Matrix) At(a, b uint32) float32 {
	return m.Coeffs[int(a)*m.Colours+int(b)]
}

// Set stores the coefficient for the (a, b) colour pair.
func (m *Matrix) Set(a, b int, v float32) {
	m.Coeffs[a*m.Colours+b] = v
}

// Randomize fills the matrix with independent uniform values in [-1,1].
func (m *Matrix) Randomize(rng *rand.Rand) {
	for i := range m.Coeffs {
		m.Coeffs[i] = rng.Float32()*2 - 1
	}
}

// RandomizeSymmetric fills the matrix with uniform values mirrored across
// the diagonal, so every pair attracts or repels mutually.
func (m *Matrix) RandomizeSymmetric(rng *rand.Rand) {
	for a := 0; a < m.Colours; a++ {
		for b := a; b < m.Colours; b++ {
			v := rng.Float32()*2 - 1
			m.Set(a, b, v)
			m.Set(b, a, v)
		}
	}
}

// RandomizeSnakes sets self-attraction on the diagonal and attraction to
// the next colour up, producing chains of colour-ordered clusters. With
// many colours this is the classic "snakes" configuration.
func (m *Matrix) RandomizeSnakes() {
	for a := 0; a < m.Colours; a++ {
		for b := 0; b < m.Colours; b++ {
			switch {
			case a == b:
				m.Set(a, b, 1)
			case (a+1)%m.Colours == b:
				m.Set(a, b, 0.2)
			default:
				m.Set(a, b, 0)
			}
		}
	}
}

// RandomizePerlin samples the matrix from 2D perlin noise over colour
// index space, so neighbouring colours get correlated coefficients.
// Large colour counts stay structured instead of dissolving into
// uncorrelated noise. scale controls feature size in colour-index units.
func (m *Matrix) RandomizePerlin(scale float64, seed int64) {
	p := perlin.NewPerlin(2, 2, 3, seed)
	for a := 0; a < m.Colours; a++ {
		for b := 0; b < m.Colours; b++ {
			v := p.Noise2D(float64(a)/scale, float64(b)/scale)
			m.Set(a, b, clamp32(float32(v*2), -1, 1))
		}
	}
}

// Mutate perturbs every coefficient with gaussian noise of the given
// sigma, clamped back into [-1,1].
func (m *Matrix) Mutate(rng *rand.Rand, sigma float64) {
	for i := range m.Coeffs {
		m.Coeffs[i] = clamp32(m.Coeffs[i]+float32(rng.NormFloat64()*sigma), -1, 1)
	}
}

// Save writes the matrix to a JSON file.
func (m *Matrix) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling matrix: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing matrix file: %w", err)
	}
	return nil
}

// LoadMatrix reads a matrix from a JSON file and checks its shape.
func LoadMatrix(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading matrix file: %w", err)
	}
	m := &Matrix{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing matrix file: %w", err)
	}
	if len(m.Coeffs) != m.Colours*m.Colours {
		return nil, fmt.Errorf("matrix shape mismatch: %d coefficients for %d colours", len(m.Coeffs), m.Colours)
	}
	return m, nil
}
