package neighbor

import (
	"sync"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
)

// AssignVelocities gives every point in bins the mean velocity of its k
// nearest neighbors in idx, where vs[i] is the velocity of the i-th indexed
// point. The same index is shared by every bin. Velocities are summed in
// neighbor order, so the result does not depend on workers.
func AssignVelocities(
	idx Index, vs []geom.Vec, bins [][]geom.Vec, k, workers int,
) ([][]geom.Vec, error) {
	if len(vs) != idx.Len() {
		return nil, errs.Shapef(
			"%d indexed particles but %d particle velocities", idx.Len(), len(vs),
		)
	} else if k < 1 || k > idx.Len() {
		return nil, errs.Configf(
			"cannot average over %d neighbors with %d particles", k, idx.Len(),
		)
	}
	if workers < 1 {
		workers = 1
	}

	out := make([][]geom.Vec, len(bins))
	for i, xs := range bins {
		out[i] = make([]geom.Vec, len(xs))
		assignBin(idx, vs, xs, out[i], k, workers)
	}
	return out, nil
}

// assignBin fills out for a single bin, splitting the points into contiguous
// blocks, one per worker.
func assignBin(idx Index, vs, xs, out []geom.Vec, k, workers int) {
	chunk := (len(xs) + workers - 1) / workers

	wg := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		start, end := w*chunk, (w+1)*chunk
		if end > len(xs) {
			end = len(xs)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			nbrs := make([]int, 0, k)
			for j := start; j < end; j++ {
				nbrs = idx.Query(xs[j], k, nbrs[:0])
				v := geom.Vec{}
				for _, n := range nbrs {
					v = v.Add(vs[n])
				}
				out[j] = v.Scale(1 / float64(len(nbrs)))
			}
		}(start, end)
	}
	wg.Wait()
}
