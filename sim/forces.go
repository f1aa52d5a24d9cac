package sim

// ForceCurve evaluates the per-pair force at normalized distance d in
// [0,1] for the colour-pair coefficient coeff.
//
// Two regimes separated by beta:
//   - d < beta: hard repulsion core, independent of coeff. Strongest (-1)
//     at d=0, fading to 0 at d=beta. This is what keeps particles from
//     collapsing onto each other.
//   - beta <= d < 1: triangular wave scaled by coeff, peaking at coeff
//     when d = (1+beta)/2 and reaching 0 at both d=beta and d=1.
//
// Negative values push the pair apart, positive pull together. d >= 1
// never reaches this function; the integrator cuts off at the radius.
func ForceCurve(d, beta, coeff float32) float32 {
	if d < beta {
		return d/beta - 1
	}
	return coeff * (1 - absf(2*d-1-beta)/(1-beta))
}

// integrateRange runs the force integrator for particles [i0,i1): walks
// the 3×3 cell neighborhood, accumulates pairwise forces, integrates
// velocity and position, applies the boundary policy, and writes the
// result to dst at the same index. src is never written.
func integrateRange(src, dst []Particle, colours []uint32, grid *Grid, m *Matrix, p *Params, i0, i1 int) {
	r2 := p.Radius * p.Radius
	width := p.Width()
	wrap := p.Border == BorderWrap

	for i := i0; i < i1; i++ {
		self := src[i]
		ci := colours[i]
		cx, cy := grid.CellCoords(self.X, self.Y)

		var fx, fy float32
		for dy := int32(-1); dy <= 1; dy++ {
			ny := cy + dy
			if ny < 0 || ny >= grid.dim {
				continue
			}
			for dx := int32(-1); dx <= 1; dx++ {
				nx := cx + dx
				if nx < 0 || nx >= grid.dim {
					continue
				}
				for j := grid.Head(nx, ny); j != EmptyCell; j = grid.next[j] {
					if int(j) == i {
						continue
					}
					other := &src[j]
					ddx := other.X - self.X
					ddy := other.Y - self.Y
					if wrap {
						// Shortest-path delta per axis.
						if ddx > p.Half {
							ddx -= width
						} else if ddx < -p.Half {
							ddx += width
						}
						if ddy > p.Half {
							ddy -= width
						} else if ddy < -p.Half {
							ddy += width
						}
					}
					d2 := ddx*ddx + ddy*ddy
					if d2 <= 0 || d2 >= r2 {
						continue
					}
					dist := sqrtf(d2)
					f := ForceCurve(dist/p.Radius, p.Beta, m.At(ci, colours[j]))
					if dist < p.Avoidance {
						f += -(p.Avoidance/dist - 1) * 0.5
					}
					fx += f * ddx / dist
					fy += f * ddy / dist
				}
			}
		}

		fx *= p.Force * p.Radius
		fy *= p.Force * p.Radius

		if p.Vortex {
			fx += -self.VY * vortexStrength
			fy += self.VX * vortexStrength
		}

		vx := self.VX*(1-p.Friction) + fx*p.DT
		vy := self.VY*(1-p.Friction) + fy*p.DT
		x := self.X + vx*p.DT
		y := self.Y + vy*p.DT

		if wrap {
			x = mod(x+p.Half, width) - p.Half
			y = mod(y+p.Half, width) - p.Half
		} else {
			if x > p.Half {
				x = p.Half
				vx = -absf(vx)
			} else if x < -p.Half {
				x = -p.Half
				vx = absf(vx)
			}
			if y > p.Half {
				y = p.Half
				vy = -absf(vy)
			} else if y < -p.Half {
				y = -p.Half
				vy = absf(vy)
			}
		}

		dst[i] = Particle{X: x, Y: y, VX: vx, VY: vy}
	}
}

// vortexStrength scales the velocity-perpendicular swirl force.
const vortexStrength = 0.1
