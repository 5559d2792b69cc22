package bias

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/sample"
)

// CountField is the per-cell, per-mass-bin halo count of a grid. Bins[i] is
// the count field of bin i in the same x-major order as the density field.
type CountField struct {
	Cells int
	Mode  CountMode
	Bins  [][]float64
}

// Total returns the summed count of a bin.
func (cf *CountField) Total(bin int) float64 {
	return floats.Sum(cf.Bins[bin])
}

// Targets returns the number of halos that will be placed in each bin: the
// rounded total count. In Poisson mode the totals are already integers.
func (cf *CountField) Targets() []int {
	out := make([]int, len(cf.Bins))
	for i := range out {
		out[i] = int(math.Round(cf.Total(i)))
	}
	return out
}

// SampleCounts evaluates the bias model on every cell of a density contrast
// field with cells cells on a side. It returns the count field and the number
// of cells in each bin whose mean had to be clamped to zero.
//
// Means are computed on workers goroutines. In Poisson mode, the draws for
// bin i come from streams.Source(sample.CountStage, i) and are made in cell
// order, so the result does not depend on workers.
func SampleCounts(
	rho []float64, cells int, params []Params,
	mode CountMode, streams sample.Streams, workers int,
) (*CountField, []int, error) {
	if cells <= 0 || len(rho) != cells*cells*cells {
		return nil, nil, errs.Shapef(
			"density field has %d cells, which is not %d^3", len(rho), cells,
		)
	} else if len(params) == 0 {
		return nil, nil, errs.Configf("no bias parameters given")
	} else if mode < 0 || mode >= EndCountMode {
		return nil, nil, errs.Configf("unknown count mode %v", mode)
	}
	for i := range params {
		if err := params[i].check(i); err != nil {
			return nil, nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}

	cf := &CountField{Cells: cells, Mode: mode, Bins: make([][]float64, len(params))}
	degenerate := make([]int, len(params))

	for i := range params {
		cf.Bins[i] = make([]float64, len(rho))
		degenerate[i] = evalMeans(rho, &params[i], cf.Bins[i], workers)

		if mode == Poisson {
			drawPoisson(cf.Bins[i], streams, i)
		}
	}

	return cf, degenerate, nil
}

// evalMeans writes the model mean of every cell into out and returns the
// number of degenerate cells.
func evalMeans(rho []float64, p *Params, out []float64, workers int) int {
	chunk := (len(rho) + workers - 1) / workers
	bad := make([]int, workers)

	wg := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		start, end := w*chunk, (w+1)*chunk
		if end > len(rho) {
			end = len(rho)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				n, ok := p.Mean(rho[j])
				if !ok {
					bad[w]++
				}
				out[j] = n
			}
		}(w, start, end)
	}
	wg.Wait()

	total := 0
	for _, n := range bad {
		total += n
	}
	return total
}

// drawPoisson replaces each mean in counts with a Poisson draw.
func drawPoisson(counts []float64, streams sample.Streams, bin int) {
	dist := distuv.Poisson{Src: streams.Source(sample.CountStage, bin)}
	for j, mean := range counts {
		if mean <= 0 {
			counts[j] = 0
			continue
		}
		dist.Lambda = mean
		counts[j] = dist.Rand()
	}
}
