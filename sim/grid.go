package sim

import "sync/atomic"

// EmptyCell is the sentinel terminating every per-cell particle chain.
const EmptyCell = int32(-1)

// Grid is the uniform spatial index, rebuilt from scratch every tick.
// Each cell holds the index of the most recently inserted particle
// (heads); each particle holds the index it displaced (next), forming a
// singly linked chain ending at EmptyCell.
//
// Insertion is lock-free: the only shared write is an atomic exchange on
// the cell head. Every particle owns its own next slot exclusively, so no
// other coordination is needed.
type Grid struct {
	cellSize float32
	half     float32
	dim      int32

	heads []int32
	next  []int32
	empty []int32 // all-EmptyCell template, bulk-copied into heads on Reset
}

// NewGrid provisions a grid for n particles over a world of the given
// half-size, with cell size equal to the interaction radius.
func NewGrid(n int, half, cellSize float32) *Grid {
	g := &Grid{next: make([]int32, n)}
	g.Provision(half, cellSize)
	return g
}

// Provision resizes the cell tables for a new world half-size and cell
// size. Called on construction and whenever the host changes radius or
// world size beyond the current capacity; the grid never silently
// overruns stale provisioning.
func (g *Grid) Provision(half, cellSize float32) {
	g.half = half
	g.cellSize = cellSize
	width := 2 * half
	dim := int32(width / cellSize)
	if float32(dim)*cellSize < width {
		dim++
	}
	dim++
	g.dim = dim

	cells := int(dim) * int(dim)
	if cap(g.heads) < cells {
		g.heads = make([]int32, cells)
		g.empty = make([]int32, cells)
		for i := range g.empty {
			g.empty[i] = EmptyCell
		}
	} else {
		g.heads = g.heads[:cells]
		g.empty = g.empty[:cells]
	}
}

// Dim returns the grid dimension (cells per axis).
func (g *Grid) Dim() int32 { return g.dim }

// Reset clears every cell head to the empty sentinel. Bulk copy from the
// template beats a per-cell store loop and needs no separate clear pass.
func (g *Grid) Reset() {
	copy(g.heads, g.empty)
}

// CellCoords returns the integer cell coordinates for a position, clamped
// to the world bounds first so out-of-range particles land in edge cells.
func (g *Grid) CellCoords(x, y float32) (int32, int32) {
	x = clamp32(x, -g.half, g.half)
	y = clamp32(y, -g.half, g.half)
	cx := int32((x + g.half) / g.cellSize)
	cy := int32((y + g.half) / g.cellSize)
	return cx, cy
}

// InsertRange inserts particles [i0,i1) into the grid. Safe to call
// concurrently for disjoint ranges: the head exchange is atomic, and each
// particle writes only its own next slot.
func (g *Grid) InsertRange(particles []Particle, i0, i1 int) {
	for i := i0; i < i1; i++ {
		p := &particles[i]
		cx, cy := g.CellCoords(p.X, p.Y)
		cell := cy*g.dim + cx
		prev := atomic.SwapInt32(&g.heads[cell], int32(i))
		g.next[i] = prev
	}
}

// Head returns the head index of the given cell.
func (g *Grid) Head(cx, cy int32) int32 {
	return atomic.LoadInt32(&g.heads[cy*g.dim+cx])
}

// Next returns the particle following i in its cell's chain.
func (g *Grid) Next(i int32) int32 {
	return g.next[i]
}
