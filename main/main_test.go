package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestGetModeName(t *testing.T) {
	a, b := "", ""
	vars := map[string]*string{"Populate": &a, "PlotCatalog": &b}

	_, err := getModeName(vars)
	assert.Error(t, err)

	a = "populate.cfg"
	name, err := getModeName(vars)
	require.NoError(t, err)
	assert.Equal(t, "Populate", name)

	b = "halos/"
	_, err = getModeName(vars)
	assert.Error(t, err)
}

func TestMassFunction(t *testing.T) {
	ms := []float64{3e14, 1e13, 2e13, 1e15, 5e13, 1e15}
	edges, counts := massFunction(ms, 4)

	require.Len(t, edges, 5)
	require.Len(t, counts, 4)
	assert.Equal(t, 1e13, edges[0])
	assert.True(t, edges[4] > 1e15)
	assert.Equal(t, float64(len(ms)), floats.Sum(counts))
	assert.Equal(t, 2.0, counts[3])

	edges, counts = massFunction([]float64{1e14, 1e14}, 4)
	assert.Len(t, edges, 2)
	assert.Equal(t, []float64{2}, counts)
}
