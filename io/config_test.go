package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	fname := filepath.Join(t.TempDir(), "populate.cfg")
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

func TestExamplePopulateFile(t *testing.T) {
	con, err := ReadPopulateConfig(writeConfig(t, ExamplePopulateFile))
	require.NoError(t, err)

	assert.Equal(t, 3000.0, con.BoxWidth)
	assert.Equal(t, 384, con.GridWidth)
	assert.Equal(t, 10.0, con.PadWidth)
	assert.Equal(t, 5, con.Neighbors)
	assert.Equal(t, "Mean", con.CountMode)
	assert.Equal(t, "path/to/sims/L3000-N384/7", con.InputDir(7))
	assert.Equal(t, "path/to/sims/L3000-N384/7", con.OutputDir(7))

	basis, err := con.CuboidBasis()
	require.NoError(t, err)
	assert.Equal(t, [3][3]int{{1, 1, 0}, {0, 0, 1}, {1, 0, 0}}, basis)
}

func TestReadPopulateConfig(t *testing.T) {
	con, err := ReadPopulateConfig(writeConfig(t, `[Populate]
Input = sims/%d
Output = halos/%03d
BiasDir = bias
BoxWidth = 250
GridWidth = 32
PadWidth = 5
Neighbors = 3
CountMode = Poisson
CuboidU1 = 1, 0, 0
CuboidU2 = 0 1 0
CuboidU3 = 0 0 1
OutputFormat = CSV
IterationStart = 2
IterationEnd = 4
Seed = 12
`))
	require.NoError(t, err)

	assert.Equal(t, "halos/004", con.OutputDir(4))
	assert.Equal(t, "Poisson", con.CountMode)
	assert.Equal(t, 12, con.Seed)

	basis, err := con.CuboidBasis()
	require.NoError(t, err)
	assert.Equal(t, [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, basis)

	idxs, err := con.Indices(-1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, idxs)

	idxs, err = con.Indices(9)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, idxs)
}

func TestCheckInit(t *testing.T) {
	table := []struct {
		name string
		edit func(con *PopulateConfig)
	}{
		{"no input", func(con *PopulateConfig) { con.Input = "" }},
		{"no bias", func(con *PopulateConfig) { con.BiasDir = "" }},
		{"no box", func(con *PopulateConfig) { con.BoxWidth = 0 }},
		{"no grid", func(con *PopulateConfig) { con.GridWidth = 0 }},
		{"pad too big", func(con *PopulateConfig) { con.PadWidth = 125 }},
		{"no pad", func(con *PopulateConfig) { con.PadWidth = 0 }},
		{"no neighbors", func(con *PopulateConfig) { con.Neighbors = 0 }},
		{"index", func(con *PopulateConfig) { con.NeighborIndex = "Octree" }},
		{"scatter", func(con *PopulateConfig) { con.PositionScatter = -1 }},
		{"bias format", func(con *PopulateConfig) { con.BiasFormat = "HDF5" }},
		{"output format", func(con *PopulateConfig) { con.OutputFormat = "" }},
		{"short basis", func(con *PopulateConfig) { con.CuboidU2 = "0 1" }},
		{"bad basis", func(con *PopulateConfig) { con.CuboidU3 = "0 0 z" }},
		{"half range", func(con *PopulateConfig) { con.IterationStart = 3 }},
		{"reversed range", func(con *PopulateConfig) {
			con.IterationStart, con.IterationEnd = 5, 3
		}},
	}

	for _, test := range table {
		con := DefaultPopulateWrapper().Populate
		con.Input, con.BiasDir = "in", "bias"
		con.BoxWidth, con.GridWidth = 250, 32
		require.NoError(t, con.CheckInit(), test.name)

		test.edit(&con)
		assert.Error(t, con.CheckInit(), test.name)
	}
}

func TestSeed(t *testing.T) {
	con := DefaultPopulateWrapper().Populate
	assert.False(t, con.ValidSeed())

	read, err := ReadPopulateConfig(writeConfig(t, `[Populate]
Input = sims/%d
BiasDir = bias
BoxWidth = 250
GridWidth = 32
Seed = 0
`))
	require.NoError(t, err)
	assert.Equal(t, 0, read.Seed)
	assert.True(t, read.ValidSeed())
}

func TestIndicesMissing(t *testing.T) {
	con := DefaultPopulateWrapper().Populate
	_, err := con.Indices(-1)
	assert.Error(t, err)

	con.Index = 0
	idxs, err := con.Indices(-1)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, idxs)
}
