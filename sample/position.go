package sample

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
)

// Positions draws target points from the inhomogeneous Poisson process whose
// intensity is given by a count field over a periodic grid with cells cells
// on a side and width L. counts must be x-major, as in geom.Grid.
//
// Cells are chosen with replacement, with probability proportional to their
// count, and each point is placed uniformly within its cell. If scatter is
// positive, each point is also displaced by a Gaussian with a standard
// deviation of scatter cell widths along every axis and wrapped back into the
// box. Exactly target points are returned, all in [0, L)^3. Counts must be
// finite and non-negative.
func Positions(
	counts []float64, cells int, L float64,
	target int, scatter float64, src rand.Source,
) ([]geom.Vec, error) {
	if cells <= 0 || len(counts) != cells*cells*cells {
		return nil, errs.Shapef(
			"count field has %d cells, which is not %d^3", len(counts), cells,
		)
	} else if target < 0 {
		return nil, errs.Configf("negative target count %d", target)
	} else if scatter < 0 {
		return nil, errs.Configf("negative position scatter %g", scatter)
	}
	for i, n := range counts {
		if !(n >= 0) || math.IsInf(n, 0) {
			return nil, errs.Configf("cell %d has invalid count %g", i, n)
		}
	}

	xs := make([]geom.Vec, target)
	if target == 0 {
		return xs, nil
	}

	cdf := floats.CumSum(make([]float64, len(counts)), counts)
	total := cdf[len(cdf)-1]
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, errs.Configf(
			"cannot place %d points in a count field with total %g",
			target, total,
		)
	}

	g := geom.NewGrid(cells, L)
	gen := rand.New(src)
	jitter := distuv.Normal{Mu: 0, Sigma: scatter * g.CellWidth, Src: src}

	for i := range xs {
		u := gen.Float64() * total
		// The first cell whose cumulative count exceeds u. Cells with a zero
		// count share their cumulative value with the previous cell and can
		// never be chosen.
		idx := sort.Search(len(cdf), func(j int) bool { return cdf[j] > u })
		if idx == len(cdf) {
			idx = lastPositive(counts)
		}

		x := g.CellOrigin(idx)
		for j := 0; j < 3; j++ {
			x[j] += gen.Float64() * g.CellWidth
			if scatter > 0 {
				x[j] += jitter.Rand()
			}
			x[j] = geom.Wrap(x[j], L)
		}
		xs[i] = x
	}

	return xs, nil
}

// lastPositive returns the index of the last cell with a positive count. It
// handles u landing on the total through rounding.
func lastPositive(counts []float64) int {
	for i := len(counts) - 1; i >= 0; i-- {
		if counts[i] > 0 {
			return i
		}
	}
	return len(counts) - 1
}
