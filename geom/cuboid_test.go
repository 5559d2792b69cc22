package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/halopop/errs"
)

var cuboidBases = [][3][3]int{
	DefaultCuboidBasis,
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{2, 1, 0}, {1, 1, 0}, {0, 0, 1}},
	{{1, 1, 1}, {1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

func periodicDist(a, b Vec) float64 {
	d := 0.0
	for j := 0; j < 3; j++ {
		dx := math.Abs(a[j] - b[j])
		if dx > 0.5 {
			dx = 1 - dx
		}
		d = math.Max(d, dx)
	}
	return d
}

func TestCuboidBijection(t *testing.T) {
	n := 24
	for _, u := range cuboidBases {
		c, err := NewCuboid(u[0], u[1], u[2])
		require.NoError(t, err, "basis %v", u)
		lens := c.Lengths()

		for ix := 0; ix < n; ix++ {
			for iy := 0; iy < n; iy++ {
				for iz := 0; iz < n; iz++ {
					x := Vec{
						(float64(ix) + 0.3) / float64(n),
						(float64(iy) + 0.6) / float64(n),
						(float64(iz) + 0.1) / float64(n),
					}
					q := c.Transform(x)
					for j := 0; j < 3; j++ {
						if q[j] < 0 || q[j] >= lens[j] {
							t.Fatalf("basis %v: Transform(%v) = %v is outside %v",
								u, x, q, lens)
						}
					}
					back := c.Inverse(q)
					if d := periodicDist(back, x); d > 1e-12 {
						t.Fatalf("basis %v: Inverse(Transform(%v)) = %v", u, x, back)
					}
				}
			}
		}
	}
}

func TestCuboidInjective(t *testing.T) {
	// Distinct cube cells must land in distinct places: check that the
	// images of a lattice of cell centers are pairwise separated.
	c, err := NewCuboid(DefaultCuboidBasis[0], DefaultCuboidBasis[1], DefaultCuboidBasis[2])
	require.NoError(t, err)

	n := 10
	qs := []Vec{}
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				x := Vec{
					(float64(ix) + 0.5) / float64(n),
					(float64(iy) + 0.5) / float64(n),
					(float64(iz) + 0.5) / float64(n),
				}
				qs = append(qs, c.Transform(x))
			}
		}
	}

	minDist2 := math.Inf(1)
	for i := range qs {
		for j := i + 1; j < len(qs); j++ {
			minDist2 = math.Min(minDist2, qs[i].Dist2(qs[j]))
		}
	}
	// Rotations preserve the lattice spacing.
	assert.InDelta(t, 1.0/float64(n*n), minDist2, 1e-9)
}

func TestCuboidGeometry(t *testing.T) {
	for _, u := range cuboidBases {
		c, err := NewCuboid(u[0], u[1], u[2])
		require.NoError(t, err)

		lens := c.Lengths()
		assert.InDelta(t, 1.0, lens[0]*lens[1]*lens[2], 1e-12, "basis %v", u)
		assert.InDelta(t, 1.0, math.Abs(c.Det()), 1e-12, "basis %v", u)
	}

	c, err := NewCuboid(DefaultCuboidBasis[0], DefaultCuboidBasis[1], DefaultCuboidBasis[2])
	require.NoError(t, err)
	lens := c.Lengths()
	assert.InDelta(t, math.Sqrt2, lens[0], 1e-12)
	assert.InDelta(t, 1.0, lens[1], 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, lens[2], 1e-12)
}

func TestCuboidVelocity(t *testing.T) {
	c, err := NewCuboid(DefaultCuboidBasis[0], DefaultCuboidBasis[1], DefaultCuboidBasis[2])
	require.NoError(t, err)

	vs := []Vec{{100, 0, 0}, {-300, 250, 17}, {0, 0, -40}}
	for _, v := range vs {
		w := c.TransformVelocity(v)
		assert.InDelta(t, math.Sqrt(v.Dist2(Vec{})), math.Sqrt(w.Dist2(Vec{})), 1e-9)

		back := c.InverseVelocity(w)
		for j := 0; j < 3; j++ {
			assert.InDelta(t, v[j], back[j], 1e-9)
		}
	}

	// Velocities are large compared to the unit cube and must not be wrapped.
	w := c.TransformVelocity(Vec{1000, 1000, 0})
	assert.InDelta(t, 1000*math.Sqrt2, w[0], 1e-9)
}

func TestRemap(t *testing.T) {
	L := 3000.0
	c, err := NewCuboid(DefaultCuboidBasis[0], DefaultCuboidBasis[1], DefaultCuboidBasis[2])
	require.NoError(t, err)

	xs, vs := randomParticles(5000, L, 5)
	cxs, cvs, err := Remap(xs, vs, L, c)
	require.NoError(t, err)
	require.Len(t, cxs, len(xs))
	require.Len(t, cvs, len(vs))

	lens := c.Lengths().Scale(L)
	assert.InDelta(t, L*L*L, lens[0]*lens[1]*lens[2], 1e-3)

	min, max := Vec{math.Inf(1), math.Inf(1), math.Inf(1)}, Vec{}
	for i := range cxs {
		for j := 0; j < 3; j++ {
			require.True(t, cxs[i][j] >= 0 && cxs[i][j] < lens[j])
			min[j] = math.Min(min[j], cxs[i][j])
			max[j] = math.Max(max[j], cxs[i][j])
		}
	}
	// The points fill the cuboid, not just some corner of it.
	for j := 0; j < 3; j++ {
		assert.Less(t, min[j], 0.05*lens[j])
		assert.Greater(t, max[j], 0.95*lens[j])
	}

	_, _, err = Remap(xs, vs[:10], L, c)
	var shapeErr *errs.Shape
	assert.ErrorAs(t, err, &shapeErr)
}

func TestCuboidErrors(t *testing.T) {
	bad := [][3][3]int{
		{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}},
		{{1, 1, 0}, {1, 1, 0}, {0, 0, 1}},
		{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
	for _, u := range bad {
		_, err := NewCuboid(u[0], u[1], u[2])
		var configErr *errs.Config
		assert.ErrorAs(t, err, &configErr, "basis %v", u)
	}
}
