package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/halopop/errs"
)

// DefaultCuboidBasis is the basis used to remap a cubic box into a cuboid
// with side lengths sqrt(2) x 1 x 1/sqrt(2) box widths.
var DefaultCuboidBasis = [3][3]int{{1, 1, 0}, {0, 0, 1}, {1, 0, 0}}

// Cuboid remaps points in the periodic unit cube onto a cuboid of unit volume.
// The cuboid is defined by three integer vectors u1, u2, u3 that form a
// unimodular matrix. Since the vectors are lattice vectors of the unit cube's
// periodic tiling, translating a point by any of them does not change the
// point on the torus, and the orthogonalized cuboid they span is a
// fundamental domain of that tiling.
type Cuboid struct {
	u [3]r3.Vec
	// n holds the orthonormal axes of the cuboid and lens its side lengths.
	n    [3]r3.Vec
	lens [3]float64
	// ru holds the basis vectors expressed in the cuboid's frame.
	ru [3]r3.Vec
}

// NewCuboid creates a Cuboid from three integer basis vectors.
func NewCuboid(u1, u2, u3 [3]int) (*Cuboid, error) {
	if det := intDet(u1, u2, u3); det != 1 && det != -1 {
		return nil, errs.Configf(
			"cuboid basis %v, %v, %v has determinant %d instead of +/-1",
			u1, u2, u3, det,
		)
	}

	c := &Cuboid{}
	for i, u := range [3][3]int{u1, u2, u3} {
		c.u[i] = r3.Vec{X: float64(u[0]), Y: float64(u[1]), Z: float64(u[2])}
	}

	// Gram-Schmidt, in order, so that e1 = u1 and each later axis only
	// picks up the component of its vector that is orthogonal to the
	// earlier ones.
	for i := 0; i < 3; i++ {
		e := c.u[i]
		for j := 0; j < i; j++ {
			e = r3.Sub(e, r3.Scale(r3.Dot(c.u[i], c.n[j]), c.n[j]))
		}
		c.lens[i] = r3.Norm(e)
		c.n[i] = r3.Unit(e)
	}

	for i := 0; i < 3; i++ {
		c.ru[i] = c.rotate(c.u[i])
	}

	if d := math.Abs(c.Det()); math.Abs(d-1) > 1e-9 {
		return nil, errs.Configf(
			"cuboid basis %v, %v, %v gives a frame with |det| = %g",
			u1, u2, u3, d,
		)
	}

	return c, nil
}

// intDet computes the determinant of the matrix with rows u1, u2, u3 exactly.
func intDet(u1, u2, u3 [3]int) int {
	return u1[0]*(u2[1]*u3[2]-u2[2]*u3[1]) -
		u1[1]*(u2[0]*u3[2]-u2[2]*u3[0]) +
		u1[2]*(u2[0]*u3[1]-u2[1]*u3[0])
}

// Det returns the determinant of the rotation applied to velocities. It is
// +1 for right-handed bases and -1 for left-handed ones, up to rounding.
func (c *Cuboid) Det() float64 {
	rot := mat.NewDense(3, 3, []float64{
		c.n[0].X, c.n[0].Y, c.n[0].Z,
		c.n[1].X, c.n[1].Y, c.n[1].Z,
		c.n[2].X, c.n[2].Y, c.n[2].Z,
	})
	return mat.Det(rot)
}

// Lengths returns the side lengths of the cuboid in units of the cube width.
// Their product is one.
func (c *Cuboid) Lengths() Vec {
	return Vec{c.lens[0], c.lens[1], c.lens[2]}
}

func (c *Cuboid) rotate(p r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(p, c.n[0]), Y: r3.Dot(p, c.n[1]), Z: r3.Dot(p, c.n[2])}
}

func (c *Cuboid) unrotate(q r3.Vec) r3.Vec {
	p := r3.Scale(q.X, c.n[0])
	p = r3.Add(p, r3.Scale(q.Y, c.n[1]))
	return r3.Add(p, r3.Scale(q.Z, c.n[2]))
}

// Transform maps a point in the unit cube onto the cuboid. Points outside
// [0, 1)^3 are wrapped first. The result lies in [0, L1) x [0, L2) x [0, L3).
func (c *Cuboid) Transform(x Vec) Vec {
	x = WrapVec(x, 1)
	q := fromR3(c.rotate(toR3(x)))

	// Reducing along u3 first leaves later reductions free to move the
	// point without changing its third coordinate, since u1 and u2 are
	// orthogonal to the third axis. The same holds for u2 and the second
	// axis.
	for i := 2; i >= 0; i-- {
		ru := fromR3(c.ru[i])
		k := math.Floor(q[i] / c.lens[i])
		q = q.Sub(ru.Scale(k))
		if q[i] < 0 {
			q = q.Add(ru)
		} else if q[i] >= c.lens[i] {
			q = q.Sub(ru)
		}
	}

	for i := range q {
		if q[i] < 0 {
			q[i] = 0
		} else if q[i] >= c.lens[i] {
			q[i] = math.Nextafter(c.lens[i], 0)
		}
	}

	return q
}

// Inverse maps a point on the cuboid back into the unit cube.
func (c *Cuboid) Inverse(q Vec) Vec {
	p := c.unrotate(toR3(q))
	return WrapVec(fromR3(p), 1)
}

// TransformVelocity applies the rotation part of Transform to a velocity.
// Velocities are never wrapped.
func (c *Cuboid) TransformVelocity(v Vec) Vec {
	return fromR3(c.rotate(toR3(v)))
}

// InverseVelocity undoes TransformVelocity.
func (c *Cuboid) InverseVelocity(v Vec) Vec {
	return fromR3(c.unrotate(toR3(v)))
}

func fromR3(p r3.Vec) Vec { return Vec{p.X, p.Y, p.Z} }

func toR3(v Vec) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Remap moves positions in the periodic box [0, L)^3 and their velocities
// onto the cuboid defined by c, scaled so that it has volume L^3. New slices
// are returned.
func Remap(xs, vs []Vec, L float64, c *Cuboid) (cxs, cvs []Vec, err error) {
	if len(xs) != len(vs) {
		return nil, nil, errs.Shapef(
			"%d positions but %d velocities", len(xs), len(vs),
		)
	} else if L <= 0 {
		return nil, nil, errs.Configf(
			"box width must be positive, but is %g", L,
		)
	}

	cxs, cvs = make([]Vec, len(xs)), make([]Vec, len(vs))
	for i := range xs {
		cxs[i] = c.Transform(xs[i].Scale(1/L)).Scale(L)
		cvs[i] = c.TransformVelocity(vs[i])
	}
	return cxs, cvs, nil
}
