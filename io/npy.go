package io

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
)

// ReadArray reads a float32 or float64 .npy file and returns its values as
// float64s in C order along with its shape.
func ReadArray(fname string) (vals []float64, shape []int, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r, err := npy.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read npy header of %s: %w",
			fname, err)
	}
	if r.Header.Descr.Fortran {
		return nil, nil, errs.Shapef("%s is stored in Fortran order", fname)
	}
	shape = append([]int{}, r.Header.Descr.Shape...)

	switch r.Header.Descr.Type {
	case "<f8", ">f8", "|f8", "f8":
		if numElems(shape) == 0 {
			return []float64{}, shape, nil
		}
		if err := r.Read(&vals); err != nil {
			return nil, nil, fmt.Errorf("could not read %s: %w", fname, err)
		}
	case "<f4", ">f4", "|f4", "f4":
		if numElems(shape) == 0 {
			return []float64{}, shape, nil
		}
		vals32 := []float32{}
		if err := r.Read(&vals32); err != nil {
			return nil, nil, fmt.Errorf("could not read %s: %w", fname, err)
		}
		vals = make([]float64, len(vals32))
		for i := range vals32 {
			vals[i] = float64(vals32[i])
		}
	default:
		return nil, nil, errs.Shapef(
			"%s has dtype %s, but only float32 and float64 are supported",
			fname, r.Header.Descr.Type,
		)
	}

	return vals, shape, nil
}

// ReadGrid reads a cubic (N, N, N) density grid.
func ReadGrid(fname string) (rho []float64, cells int, err error) {
	rho, shape, err := ReadArray(fname)
	if err != nil {
		return nil, 0, err
	}
	if len(shape) != 3 || shape[0] != shape[1] || shape[1] != shape[2] {
		return nil, 0, errs.Shapef(
			"%s has shape %v, but a cubic (N, N, N) grid is required",
			fname, shape,
		)
	}
	return rho, shape[0], nil
}

// ReadVecs reads an (M, 3) array of vectors.
func ReadVecs(fname string) ([]geom.Vec, error) {
	vals, shape, err := ReadArray(fname)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[1] != 3 {
		return nil, errs.Shapef(
			"%s has shape %v, but (M, 3) is required", fname, shape,
		)
	}

	xs := make([]geom.Vec, shape[0])
	for i := range xs {
		xs[i] = geom.Vec{vals[3*i], vals[3*i+1], vals[3*i+2]}
	}
	return xs, nil
}

// ReadFloats reads a one-dimensional array.
func ReadFloats(fname string) ([]float64, error) {
	vals, shape, err := ReadArray(fname)
	if err != nil {
		return nil, err
	}
	if len(shape) != 1 {
		return nil, errs.Shapef(
			"%s has shape %v, but a one-dimensional array is required",
			fname, shape,
		)
	}
	return vals, nil
}

func readInts(fname string) ([]int, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npy.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("could not read npy header of %s: %w",
			fname, err)
	}
	if len(r.Header.Descr.Shape) != 1 {
		return nil, errs.Shapef(
			"%s has shape %v, but a one-dimensional array is required",
			fname, r.Header.Descr.Shape,
		)
	}

	if numElems(r.Header.Descr.Shape) == 0 {
		return []int{}, nil
	}
	vals64 := []int64{}
	if err := r.Read(&vals64); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", fname, err)
	}
	vals := make([]int, len(vals64))
	for i := range vals {
		vals[i] = int(vals64[i])
	}
	return vals, nil
}

func numElems(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}

// writeEmpty writes the header of a C-ordered .npy array with no elements.
// npyio can't describe the shape of an empty matrix.
func writeEmpty(f *os.File, descr string, shape []int) error {
	dims := make([]string, len(shape))
	for i := range shape {
		dims[i] = fmt.Sprint(shape[i])
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}

	header := fmt.Sprintf(
		"{'descr': '%s', 'fortran_order': False, 'shape': (%s), }",
		descr, shapeStr,
	)
	// Magic string, version, and header length take 10 bytes, and the
	// padded header ends in a newline.
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	if _, err := f.Write([]byte("\x93NUMPY\x01\x00")); err != nil {
		return err
	}
	err := binary.Write(f, binary.LittleEndian, uint16(len(header)))
	if err != nil {
		return err
	}
	_, err = f.Write([]byte(header))
	return err
}

// WriteVecs writes xs as an (M, 3) float64 array.
func (st *Staged) WriteVecs(fname string, xs []geom.Vec) error {
	f, err := st.Create(fname)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return writeEmpty(f, "<f8", []int{0, 3})
	}

	flat := make([]float64, 3*len(xs))
	for i := range xs {
		copy(flat[3*i:3*i+3], xs[i][:])
	}
	return npy.Write(f, mat.NewDense(len(xs), 3, flat))
}

// WriteFloats writes xs as a one-dimensional float64 array.
func (st *Staged) WriteFloats(fname string, xs []float64) error {
	f, err := st.Create(fname)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return writeEmpty(f, "<f8", []int{0})
	}
	return npy.Write(f, xs)
}

// WriteInts writes xs as a one-dimensional int64 array.
func (st *Staged) WriteInts(fname string, xs []int) error {
	f, err := st.Create(fname)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return writeEmpty(f, "<i8", []int{0})
	}
	out := make([]int64, len(xs))
	for i := range xs {
		out[i] = int64(xs[i])
	}
	return npy.Write(f, out)
}
