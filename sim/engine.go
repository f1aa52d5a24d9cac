package sim

import (
	"runtime"
	"sync"
	"time"
)

// parallelThreshold is the minimum particle count to use the worker pool.
// Below this, single-threaded is faster due to dispatch overhead.
const parallelThreshold = 256

// tickPhase identifies which kernel a work chunk runs.
type tickPhase uint8

const (
	phaseGridInsert tickPhase = iota
	phaseIntegrate
)

// workChunk is a particle index range for one worker to process.
type workChunk struct {
	start, end int
	phase      tickPhase
}

// Engine owns the double-buffered particle state and runs one simulation
// tick as two data-parallel kernels with a full barrier between them:
// grid build over the front buffer, then force integration reading the
// front buffer and writing the back buffer. After both kernels the
// buffers swap roles.
//
// Within a kernel there is no ordering between particles; the integrator
// only ever reads the previous tick's committed state, so no locking is
// needed anywhere but the grid's head exchange.
type Engine struct {
	params  Params
	matrix  *Matrix
	buffers [2][]Particle
	colours []uint32
	front   int
	grid    *Grid

	// Kernel inputs for the in-flight dispatch. Written single-threaded
	// before chunks are sent; the channel send publishes them to workers.
	src, dst []Particle

	numWorkers int
	workChan   chan workChunk
	doneChan   chan struct{}
	stopChan   chan struct{}
	wg         sync.WaitGroup
	running    bool

	timing TickTiming
}

// TickTiming breaks down the last Tick by stage, for the host's perf
// collector.
type TickTiming struct {
	GridReset time.Duration
	GridBuild time.Duration
	Integrate time.Duration
}

// NewEngine creates an engine for n particles with the given parameters
// and interaction matrix. Particle state starts zeroed; use SpawnUniform
// on Front() and Colours() to seed it, or fill them directly.
func NewEngine(n int, params Params, matrix *Matrix) *Engine {
	e := &Engine{
		params:     params,
		matrix:     matrix,
		colours:    make([]uint32, n),
		grid:       NewGrid(n, params.Half, params.Radius),
		numWorkers: runtime.GOMAXPROCS(0),
	}
	e.buffers[0] = make([]Particle, n)
	e.buffers[1] = make([]Particle, n)
	return e
}

// N returns the particle count.
func (e *Engine) N() int { return len(e.colours) }

// Front returns the buffer holding the most recently integrated state.
// The renderer reads this between ticks; it is never written in place.
func (e *Engine) Front() []Particle { return e.buffers[e.front] }

// FrontIndex returns which buffer currently holds the committed state.
func (e *Engine) FrontIndex() int { return e.front }

// Colours returns the per-particle colour indices, immutable after init.
func (e *Engine) Colours() []uint32 { return e.colours }

// Params returns the current parameter snapshot.
func (e *Engine) Params() Params { return e.params }

// Matrix returns the current interaction matrix.
func (e *Engine) Matrix() *Matrix { return e.matrix }

// Grid exposes the spatial index for diagnostics; valid between ticks.
func (e *Engine) Grid() *Grid { return e.grid }

// SetParams replaces the parameter snapshot. Only safe between ticks.
// The grid is re-provisioned when the radius or world size changed, so a
// slider dragged past the initial values cannot overrun the cell tables.
func (e *Engine) SetParams(p Params) {
	if p.Radius != e.params.Radius || p.Half != e.params.Half {
		e.grid.Provision(p.Half, p.Radius)
	}
	e.params = p
}

// SetMatrix replaces the interaction matrix. Only safe between ticks.
func (e *Engine) SetMatrix(m *Matrix) { e.matrix = m }

// Tick runs one simulation step: grid reset, parallel grid build, full
// barrier, parallel force integration, buffer swap. Returns the index of
// the buffer now holding the freshly integrated state.
func (e *Engine) Tick() int {
	back := 1 - e.front
	e.src = e.buffers[e.front]
	e.dst = e.buffers[back]

	t0 := time.Now()
	e.grid.Reset()
	t1 := time.Now()
	e.dispatch(phaseGridInsert)
	t2 := time.Now()
	// dispatch blocks until every chunk is done, so all grid writes are
	// visible before the integrator starts reading them.
	e.dispatch(phaseIntegrate)
	t3 := time.Now()
	e.timing = TickTiming{
		GridReset: t1.Sub(t0),
		GridBuild: t2.Sub(t1),
		Integrate: t3.Sub(t2),
	}

	e.front = back
	return e.front
}

// Timing returns the stage breakdown of the last Tick.
func (e *Engine) Timing() TickTiming { return e.timing }

// dispatch runs one kernel over all particles, chunked across the worker
// pool, and waits for completion. Small populations run inline.
func (e *Engine) dispatch(phase tickPhase) {
	n := e.N()
	if n < parallelThreshold {
		e.runChunk(workChunk{start: 0, end: n, phase: phase})
		return
	}

	if !e.running {
		e.startWorkers()
	}

	chunkSize := (n + e.numWorkers - 1) / e.numWorkers
	dispatched := 0
	for w := 0; w < e.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		e.workChan <- workChunk{start: start, end: end, phase: phase}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-e.doneChan
	}
}

// runChunk executes one kernel over a particle range.
func (e *Engine) runChunk(c workChunk) {
	switch c.phase {
	case phaseGridInsert:
		e.grid.InsertRange(e.src, c.start, c.end)
	case phaseIntegrate:
		integrateRange(e.src, e.dst, e.colours, e.grid, e.matrix, &e.params, c.start, c.end)
	}
}

// startWorkers launches the persistent worker goroutines.
func (e *Engine) startWorkers() {
	e.workChan = make(chan workChunk, e.numWorkers)
	e.doneChan = make(chan struct{}, e.numWorkers)
	e.stopChan = make(chan struct{})
	e.running = true

	for i := 0; i < e.numWorkers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
}

// worker processes chunks until stopped.
func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopChan:
			return
		case c, ok := <-e.workChan:
			if !ok {
				return
			}
			e.runChunk(c)
			e.doneChan <- struct{}{}
		}
	}
}

// Stop shuts down the worker pool. The engine can keep ticking after
// Stop; the pool restarts on the next parallel dispatch.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	close(e.stopChan)
	e.wg.Wait()
	close(e.workChan)
	close(e.doneChan)
	e.running = false
}
