package io

import (
	"fmt"
	"path/filepath"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/halopop/errs"
)

// ReadBias reads the bias parameter rows of a realization and the shared
// mass bin edges from dir. format is either "Npy" or "Text".
func ReadBias(
	dir string, index, params int, format string,
) (rows [][]float64, edges []float64, err error) {
	switch format {
	case "Npy":
		return ReadBiasNpy(dir, index, params)
	case "Text":
		return ReadBiasText(dir, index, params)
	}
	return nil, nil, errs.Configf("unrecognized bias format '%s'", format)
}

// ReadBiasNpy reads <index>.npy, a (K, params) array, and medges.npy.
func ReadBiasNpy(
	dir string, index, params int,
) (rows [][]float64, edges []float64, err error) {
	fname := filepath.Join(dir, fmt.Sprintf("%d.npy", index))
	vals, shape, err := ReadArray(fname)
	if err != nil {
		return nil, nil, err
	}
	if len(shape) != 2 || shape[1] != params {
		return nil, nil, errs.Shapef(
			"%s has shape %v, but (K, %d) is required", fname, shape, params,
		)
	}

	rows = make([][]float64, shape[0])
	for i := range rows {
		rows[i] = vals[i*params : (i+1)*params]
	}

	edges, err = ReadFloats(filepath.Join(dir, "medges.npy"))
	if err != nil {
		return nil, nil, err
	}
	return rows, edges, nil
}

// ReadBiasText reads whitespace-separated tables: <index>.txt with one bin
// per line and params columns, and medges.txt with one edge per line.
func ReadBiasText(
	dir string, index, params int,
) (rows [][]float64, edges []float64, err error) {
	colIdxs := make([]int, params)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	fname := filepath.Join(dir, fmt.Sprintf("%d.txt", index))
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", fname, err)
	}

	rows = make([][]float64, len(cols[0]))
	for i := range rows {
		rows[i] = make([]float64, params)
		for j := range cols {
			rows[i][j] = cols[j][i]
		}
	}

	edgeName := filepath.Join(dir, "medges.txt")
	edgeCols, err := table.ReadTable(edgeName, []int{0}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", edgeName, err)
	}
	return rows, edgeCols[0], nil
}
