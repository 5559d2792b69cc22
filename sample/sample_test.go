package sample

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
)

func TestPositionsCount(t *testing.T) {
	cells, L := 8, 80.0
	counts := make([]float64, cells*cells*cells)
	gen := rand.New(rand.NewPCG(1, 2))
	for i := range counts {
		counts[i] = gen.Float64() * 0.3
	}

	streams := Streams{Seed: 42}
	for _, target := range []int{0, 1, 17, 1000} {
		xs, err := Positions(counts, cells, L, target, 0, streams.Source(PositionStage, 0))
		require.NoError(t, err)
		require.NotNil(t, xs)
		assert.Len(t, xs, target)
		for _, x := range xs {
			for j := 0; j < 3; j++ {
				assert.True(t, x[j] >= 0 && x[j] < L, "%v outside box", x)
			}
		}
	}
}

func TestPositionsFollowCounts(t *testing.T) {
	cells, L := 4, 40.0
	g := geom.NewGrid(cells, L)
	counts := make([]float64, g.Volume)
	counts[g.Idx(1, 2, 3)] = 3
	counts[g.Idx(0, 0, 0)] = 1

	xs, err := Positions(counts, cells, L, 20000, 0, Streams{7}.Source(PositionStage, 0))
	require.NoError(t, err)

	hits := make([]int, g.Volume)
	for _, x := range xs {
		hits[g.CellIdx(x)]++
	}
	for idx := range hits {
		if counts[idx] == 0 {
			assert.Zero(t, hits[idx], "empty cell %d was sampled", idx)
		}
	}

	frac := float64(hits[g.Idx(1, 2, 3)]) / float64(len(xs))
	assert.InDelta(t, 0.75, frac, 0.02)
}

func TestPositionsScatter(t *testing.T) {
	cells, L := 2, 10.0
	counts := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	xs, err := Positions(counts, cells, L, 5000, 0.5, Streams{3}.Source(PositionStage, 1))
	require.NoError(t, err)

	outside := 0
	for _, x := range xs {
		for j := 0; j < 3; j++ {
			require.True(t, x[j] >= 0 && x[j] < L)
		}
		if x[0] >= 5 || x[1] >= 5 || x[2] >= 5 {
			outside++
		}
	}
	// With a scatter of half a cell width, plenty of points leave the cell.
	assert.Greater(t, outside, 500)
}

func TestPositionsDeterministic(t *testing.T) {
	counts := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	xs1, err := Positions(counts, 2, 1, 100, 0, Streams{9}.Source(PositionStage, 2))
	require.NoError(t, err)
	xs2, err := Positions(counts, 2, 1, 100, 0, Streams{9}.Source(PositionStage, 2))
	require.NoError(t, err)
	assert.Equal(t, xs1, xs2)
}

func TestPositionsErrors(t *testing.T) {
	src := Streams{1}.Source(PositionStage, 0)
	var shapeErr *errs.Shape
	var configErr *errs.Config

	_, err := Positions(make([]float64, 7), 2, 1, 1, 0, src)
	assert.ErrorAs(t, err, &shapeErr)

	_, err = Positions(make([]float64, 8), 2, 1, 1, 0, src)
	assert.ErrorAs(t, err, &configErr)

	xs, err := Positions(make([]float64, 8), 2, 1, 0, 0, src)
	assert.NoError(t, err)
	assert.Empty(t, xs)
}

func TestPositionsInvalidCounts(t *testing.T) {
	src := Streams{1}.Source(PositionStage, 0)
	for _, bad := range []float64{-1, math.NaN(), math.Inf(+1)} {
		counts := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		counts[3] = bad

		_, err := Positions(counts, 2, 1, 10, 0, src)
		var configErr *errs.Config
		assert.ErrorAs(t, err, &configErr, "count %g", bad)
	}
}

func TestMasses(t *testing.T) {
	edges := []float64{1e13, 2e13, 4e13, 8e13}
	counts := []int{500, 0, 1000}
	streams := Streams{Seed: 5}
	sources := func(bin int) rand.Source { return streams.Source(MassStage, bin) }

	ms, err := Masses(counts, edges, sources)
	require.NoError(t, err)
	require.Len(t, ms, len(counts))

	for i := range counts {
		assert.Len(t, ms[i], counts[i])
		sum := 0.0
		for _, m := range ms[i] {
			assert.True(t, edges[i] <= m && m < edges[i+1],
				"mass %g outside bin [%g, %g)", m, edges[i], edges[i+1])
			sum += m
		}
		if counts[i] > 0 {
			mean := sum / float64(counts[i])
			width := edges[i+1] - edges[i]
			assert.InDelta(t, edges[i]+width/2, mean, 0.05*width)
		}
	}
}

func TestMassesErrors(t *testing.T) {
	sources := func(bin int) rand.Source { return Streams{}.Source(MassStage, bin) }
	table := []struct {
		counts []int
		edges  []float64
	}{
		{[]int{1, 2}, []float64{1, 2}},
		{[]int{1}, []float64{2, 1}},
		{[]int{1}, []float64{1, math.NaN()}},
		{[]int{-1}, []float64{1, 2}},
	}
	for i, test := range table {
		_, err := Masses(test.counts, test.edges, sources)
		var configErr *errs.Config
		assert.ErrorAs(t, err, &configErr, "case %d", i)
	}
}

func TestStreamsIndependent(t *testing.T) {
	s := Streams{Seed: 1}
	a := rand.New(s.Source(PositionStage, 0)).Uint64()
	b := rand.New(s.Source(PositionStage, 1)).Uint64()
	c := rand.New(s.Source(MassStage, 0)).Uint64()
	d := rand.New(s.Source(PositionStage, 0)).Uint64()
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, d)
}
