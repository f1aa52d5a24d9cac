package sim

import (
	"math"
	"math/rand"
	"testing"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// TestTickStaticLattice places two same-colour pairs exactly at the force
// curve's zero crossing (distance = beta*radius) with cross-colour
// coefficients of zero. Every pairwise force cancels to exactly zero, so
// the configuration must be a fixed point of the tick.
func TestTickStaticLattice(t *testing.T) {
	p := Params{
		Colours: 2,
		Radius:  15,
		Force:   1,
		Beta:    0.3,
		DT:      0.02,
		Half:    6,
		Border:  BorderReflect,
	}
	m := NewMatrix(2)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)

	e := NewEngine(4, p, m)
	defer e.Stop()

	// Same-colour pairs 4.5 apart horizontally (4.5 = beta*radius);
	// cross-colour distances are 4.5 and sqrt(40.5), both with coeff 0.
	init := []Particle{
		{X: -2.25, Y: -2.25},
		{X: 2.25, Y: -2.25},
		{X: -2.25, Y: 2.25},
		{X: 2.25, Y: 2.25},
	}
	copy(e.Front(), init)
	copy(e.Colours(), []uint32{0, 0, 1, 1})

	for tick := 0; tick < 10; tick++ {
		e.Tick()
		for i, got := range e.Front() {
			if got != init[i] {
				t.Fatalf("tick %d: particle %d moved: got %+v, want %+v",
					tick, i, got, init[i])
			}
		}
	}
}

// TestTickMidRangePair runs a full tick over an attracting pair and checks
// the integrated velocity against the closed-form force.
func TestTickMidRangePair(t *testing.T) {
	p := basePairParams()
	m := NewMatrix(2)
	m.Set(0, 1, -1)
	m.Set(1, 0, -1)

	e := NewEngine(2, p, m)
	defer e.Stop()
	copy(e.Front(), []Particle{{X: -3.75, Y: 0}, {X: 3.75, Y: 0}})
	copy(e.Colours(), []uint32{0, 1})

	e.Tick()

	// Normalized distance 7.5/15 = 0.5; curve value scaled by
	// force*radius and integrated over dt.
	want := float64(ForceCurve(0.5, p.Beta, -1)) * float64(p.Force) * float64(p.Radius) * float64(p.DT)
	got := e.Front()[0]
	if math.Abs(float64(got.VX)-want) > 1e-5 {
		t.Errorf("particle 0 VX = %v, want %v", got.VX, want)
	}
	if math.Abs(float64(got.VY)) > 1e-6 {
		t.Errorf("particle 0 VY = %v, want 0", got.VY)
	}
	// Symmetric pair: equal and opposite.
	if other := e.Front()[1]; math.Abs(float64(other.VX+got.VX)) > 1e-6 {
		t.Errorf("pair velocities not opposite: %v vs %v", got.VX, other.VX)
	}
}

// TestTickBufferDiscipline verifies the source buffer is never written
// during a tick and that the front index alternates.
func TestTickBufferDiscipline(t *testing.T) {
	p := basePairParams()
	m := NewMatrix(2)
	m.Set(0, 1, -1)
	m.Set(1, 0, -1)

	e := NewEngine(2, p, m)
	defer e.Stop()
	copy(e.Front(), []Particle{{X: -3.75, Y: 0}, {X: 3.75, Y: 0}})
	copy(e.Colours(), []uint32{0, 1})

	if e.FrontIndex() != 0 {
		t.Fatalf("initial front index = %d, want 0", e.FrontIndex())
	}

	before := make([]Particle, 2)
	copy(before, e.Front())

	if got := e.Tick(); got != 1 {
		t.Errorf("first Tick returned front %d, want 1", got)
	}
	// Old front is now the back buffer; it must be byte-for-byte intact.
	back := e.buffers[1-e.front]
	for i := range back {
		if back[i] != before[i] {
			t.Errorf("source buffer mutated at %d: got %+v, want %+v",
				i, back[i], before[i])
		}
	}

	if got := e.Tick(); got != 0 {
		t.Errorf("second Tick returned front %d, want 0", got)
	}
}

// TestTickWrapBoundary verifies wrap mode keeps positions in [-half, half)
// and that a particle parked on the seam is stable across ticks.
func TestTickWrapBoundary(t *testing.T) {
	p := basePairParams()
	p.Border = BorderWrap
	m := NewMatrix(2)

	e := NewEngine(1, p, m)
	defer e.Stop()
	e.Front()[0] = Particle{X: p.Half, Y: 0} // exactly on the seam

	e.Tick()
	got := e.Front()[0]
	if got.X != -p.Half {
		t.Fatalf("seam particle wrapped to %v, want %v", got.X, -p.Half)
	}

	// -half is the canonical seam position; a second tick is a no-op.
	e.Tick()
	if again := e.Front()[0]; again != got {
		t.Errorf("seam particle drifted: %+v -> %+v", got, again)
	}
}

// TestTickReflectBoundary verifies reflect mode clamps escaping particles
// to the wall and points the velocity back inward.
func TestTickReflectBoundary(t *testing.T) {
	p := basePairParams()
	m := NewMatrix(2)

	e := NewEngine(1, p, m)
	defer e.Stop()
	e.Front()[0] = Particle{X: p.Half - 0.01, Y: -p.Half + 0.01, VX: 10, VY: -10}

	e.Tick()
	got := e.Front()[0]
	if got.X != p.Half || got.VX > 0 {
		t.Errorf("right wall: X=%v VX=%v, want X=%v VX<=0", got.X, got.VX, p.Half)
	}
	if got.Y != -p.Half || got.VY < 0 {
		t.Errorf("bottom wall: Y=%v VY=%v, want Y=%v VY>=0", got.Y, got.VY, -p.Half)
	}
}

// TestSetParamsReprovisionsGrid verifies growing the world between ticks
// resizes the cell tables instead of overrunning them.
func TestSetParamsReprovisionsGrid(t *testing.T) {
	p := basePairParams()
	m := NewMatrix(2)

	e := NewEngine(2, p, m)
	defer e.Stop()
	oldDim := e.Grid().Dim()

	p.Half = 500
	e.SetParams(p)
	if dim := e.Grid().Dim(); dim <= oldDim {
		t.Fatalf("grid dim %d after growing the world, want > %d", dim, oldDim)
	}

	// Particles near the new extents must tick without panicking.
	copy(e.Front(), []Particle{{X: 499, Y: 499}, {X: -499, Y: -499}})
	e.Tick()

	// Shrinking the radius re-provisions too.
	p.Radius = 5
	e.SetParams(p)
	e.Tick()
}

// TestTickParallelMatchesSerial runs the same population through a
// one-worker pool and the full pool. Concurrent insertion permutes the
// order of each cell chain, which perturbs float accumulation order, so
// the comparison allows a small tolerance rather than bit equality.
func TestTickParallelMatchesSerial(t *testing.T) {
	const n = parallelThreshold * 4
	const tol = 1e-3

	p := Params{
		Colours:   4,
		Radius:    15,
		Force:     1,
		Friction:  0.1,
		Beta:      0.3,
		DT:        0.02,
		Avoidance: 3,
		Half:      200,
		Border:    BorderWrap,
	}
	m := NewMatrix(4)
	m.Randomize(newTestRand())

	spawn := func(e *Engine) {
		SpawnUniform(e.Front(), e.Colours(), p.Colours, p.Half, newTestRand())
	}

	parallel := NewEngine(n, p, m)
	defer parallel.Stop()
	spawn(parallel)

	serial := NewEngine(n, p, m)
	defer serial.Stop()
	spawn(serial)
	serial.numWorkers = 1

	for tick := 0; tick < 5; tick++ {
		parallel.Tick()
		serial.Tick()
	}

	pf, sf := parallel.Front(), serial.Front()
	for i := range pf {
		if math.Abs(float64(pf[i].X-sf[i].X)) > tol ||
			math.Abs(float64(pf[i].Y-sf[i].Y)) > tol ||
			math.Abs(float64(pf[i].VX-sf[i].VX)) > tol ||
			math.Abs(float64(pf[i].VY-sf[i].VY)) > tol {
			t.Fatalf("tick divergence at particle %d: parallel %+v, serial %+v",
				i, pf[i], sf[i])
		}
	}
}
