/*package halopop turns a density contrast field and the particles of an
N-body or LPT simulation into a mock halo catalog.

A run pads the particles periodically, evaluates a truncated power-law bias
model on every grid cell, draws halo positions from the resulting count field,
gives each halo the mean velocity of its nearest particles, draws masses
within mass bins, and finally remaps the periodic cube onto a cuboid of the
same volume.*/
package halopop

import (
	"github.com/phil-mansfield/halopop/bias"
	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
	"github.com/phil-mansfield/halopop/io"
)

// DensityField is a periodic grid of density contrasts in x-major order.
type DensityField struct {
	Rho   []float64
	Cells int
}

func NewDensityField(rho []float64, cells int) (*DensityField, error) {
	if cells <= 0 || len(rho) != cells*cells*cells {
		return nil, errs.Shapef(
			"density field has %d cells, which is not %d^3", len(rho), cells,
		)
	}
	return &DensityField{rho, cells}, nil
}

// Particles are the positions and velocities of simulation particles.
// Positions are in [0, L)^3.
type Particles struct {
	Xs, Vs []geom.Vec
}

func NewParticles(xs, vs []geom.Vec) (*Particles, error) {
	if len(xs) != len(vs) {
		return nil, errs.Shapef(
			"%d particle positions but %d particle velocities", len(xs), len(vs),
		)
	}
	return &Particles{xs, vs}, nil
}

// Inputs are everything a single realization needs.
type Inputs struct {
	Density   *DensityField
	Particles *Particles
	Bias      []bias.Params
	MassEdges []float64
}

// Catalog is a halo catalog split by mass bin. Xs[i], Vs[i], and Ms[i] all
// have the same length.
type Catalog struct {
	Xs, Vs [][]geom.Vec
	Ms     [][]float64
}

func (cat *Catalog) Bins() int { return len(cat.Xs) }

// Len returns the number of halos in every bin.
func (cat *Catalog) Len() int {
	n := 0
	for i := range cat.Xs {
		n += len(cat.Xs[i])
	}
	return n
}

// Flatten concatenates the bins in order and records the bin of every halo.
func (cat *Catalog) Flatten() *io.Catalog {
	n := cat.Len()
	out := &io.Catalog{
		Xs:   make([]geom.Vec, 0, n),
		Vs:   make([]geom.Vec, 0, n),
		Ms:   make([]float64, 0, n),
		Bins: make([]int, 0, n),
	}
	for i := range cat.Xs {
		out.Xs = append(out.Xs, cat.Xs[i]...)
		out.Vs = append(out.Vs, cat.Vs[i]...)
		out.Ms = append(out.Ms, cat.Ms[i]...)
		for range cat.Xs[i] {
			out.Bins = append(out.Bins, i)
		}
	}
	return out
}
