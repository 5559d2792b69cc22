package sample

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phil-mansfield/halopop/errs"
)

// CheckEdges returns an error if edges does not describe bins mass bins with
// strictly increasing, finite edges.
func CheckEdges(edges []float64, bins int) error {
	if len(edges) != bins+1 {
		return errs.Configf(
			"%d mass bins need %d mass edges, but %d were given",
			bins, bins+1, len(edges),
		)
	}
	for i := range edges {
		if math.IsNaN(edges[i]) || math.IsInf(edges[i], 0) {
			return errs.Configf("mass edge %d is %g", i, edges[i])
		}
		if i > 0 && edges[i] <= edges[i-1] {
			return errs.Configf(
				"mass edges must increase, but edge %d (%g) <= edge %d (%g)",
				i, edges[i], i-1, edges[i-1],
			)
		}
	}
	return nil
}

// Masses draws counts[i] masses uniformly from [edges[i], edges[i+1]) for
// every bin i. sources gives the random source for each bin.
func Masses(
	counts []int, edges []float64, sources func(bin int) rand.Source,
) ([][]float64, error) {
	if err := CheckEdges(edges, len(counts)); err != nil {
		return nil, err
	}

	ms := make([][]float64, len(counts))
	for i := range counts {
		if counts[i] < 0 {
			return nil, errs.Configf("bin %d has negative count %d", i, counts[i])
		}

		lo, hi := edges[i], edges[i+1]
		dist := distuv.Uniform{Min: lo, Max: hi, Src: sources(i)}
		ms[i] = make([]float64, counts[i])
		for j := range ms[i] {
			m := dist.Rand()
			if m >= hi {
				m = math.Nextafter(hi, lo)
			} else if m < lo {
				m = lo
			}
			ms[i][j] = m
		}
	}
	return ms, nil
}
