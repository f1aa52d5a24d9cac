package sim

import "encoding/binary"

// BorderMode selects the boundary policy applied after integration.
type BorderMode uint32

const (
	// BorderReflect clamps particles to the world edge and bounces them.
	BorderReflect BorderMode = 0
	// BorderWrap wraps particles toroidally across the world edge.
	BorderWrap BorderMode = 1
)

// PackedParamsSize is the size of the fixed-layout parameter record
// exchanged with the host.
const PackedParamsSize = 40

// Params holds the simulation parameters. They are a read-only snapshot for
// the duration of a tick; the host may mutate them only between ticks.
//
// Invariants (validated by the config layer, not by the kernels):
// 0 < Beta < 1, Radius > 0, DT > 0. Avoidance <= Radius is assumed but not
// enforced.
type Params struct {
	Colours   uint32  // number of colour types; matrix is Colours²
	Radius    float32 // interaction radius; also the grid cell size
	Force     float32 // force magnitude multiplier
	Friction  float32 // velocity damping per tick, in [0,1]
	Beta      float32 // repulsion/attraction threshold on normalized distance
	DT        float32 // integration time step
	Avoidance float32 // absolute distance for the colour-independent repulsion
	Half      float32 // world half-size; world spans [-Half, Half]²
	Border    BorderMode
	Vortex    bool // add a velocity-perpendicular swirl force
}

// Width returns the full world width.
func (p *Params) Width() float32 { return 2 * p.Half }

// GridDim returns the grid dimension implied by the current radius and
// world size: ceil(2*Half/Radius) + 1 cells per axis.
func (p *Params) GridDim() int32 {
	dim := int32(p.Width() / p.Radius)
	if float32(dim)*p.Radius < p.Width() {
		dim++
	}
	return dim + 1
}

// Pack serializes the parameters into the fixed 40-byte little-endian
// layout shared with the host:
//
//	[colours:u32, radius, force, friction, beta, dt, avoidance, half :f32,
//	 border:u32, vortex:u32]
func (p *Params) Pack() [PackedParamsSize]byte {
	var buf [PackedParamsSize]byte
	le := binary.LittleEndian
	le.PutUint32(buf[0:], p.Colours)
	le.PutUint32(buf[4:], f32bits(p.Radius))
	le.PutUint32(buf[8:], f32bits(p.Force))
	le.PutUint32(buf[12:], f32bits(p.Friction))
	le.PutUint32(buf[16:], f32bits(p.Beta))
	le.PutUint32(buf[20:], f32bits(p.DT))
	le.PutUint32(buf[24:], f32bits(p.Avoidance))
	le.PutUint32(buf[28:], f32bits(p.Half))
	le.PutUint32(buf[32:], uint32(p.Border))
	var vortex uint32
	if p.Vortex {
		vortex = 1
	}
	le.PutUint32(buf[36:], vortex)
	return buf
}

// UnpackParams deserializes a 40-byte parameter record.
func UnpackParams(buf [PackedParamsSize]byte) Params {
	le := binary.LittleEndian
	return Params{
		Colours:   le.Uint32(buf[0:]),
		Radius:    f32frombits(le.Uint32(buf[4:])),
		Force:     f32frombits(le.Uint32(buf[8:])),
		Friction:  f32frombits(le.Uint32(buf[12:])),
		Beta:      f32frombits(le.Uint32(buf[16:])),
		DT:        f32frombits(le.Uint32(buf[20:])),
		Avoidance: f32frombits(le.Uint32(buf[24:])),
		Half:      f32frombits(le.Uint32(buf[28:])),
		Border:    BorderMode(le.Uint32(buf[32:])),
		Vortex:    le.Uint32(buf[36:]) != 0,
	}
}
