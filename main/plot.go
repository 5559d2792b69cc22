package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	plt "github.com/phil-mansfield/pyplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/halopop/io"
)

const (
	massBins = 25
	// slabFrac is the fraction of the box depth shown in the x-y projection.
	slabFrac = 0.05
)

// plotMain plots the mass function and an x-y slab of the catalog in dir.
func plotMain(dir string) error {
	cat, err := readCatalog(dir)
	if err != nil {
		return err
	}
	if len(cat.Ms) == 0 {
		return fmt.Errorf("The catalog in %s is empty.", dir)
	} else if floats.Min(cat.Ms) <= 0 {
		return fmt.Errorf("The catalog in %s has non-positive masses.", dir)
	}

	edges, counts := massFunction(cat.Ms, massBins)
	mids := make([]float64, len(counts))
	for i := range mids {
		mids[i] = math.Sqrt(edges[i] * edges[i+1])
	}

	plt.Figure(plt.FigSize(8, 6))
	plt.Plot(mids, counts, "k", plt.LW(3))
	plt.XScale("log")
	plt.YScale("log")
	plt.XLabel(`$M$ $[M_\odot/h]$`, plt.FontSize(16))
	plt.YLabel(`$N(M)$`, plt.FontSize(16))
	plt.Title(fmt.Sprintf("%d halos", len(cat.Ms)))
	plt.SaveFig(filepath.Join(dir, "halo_mass_function.png"))

	width := 0.0
	for _, x := range cat.Xs {
		width = math.Max(width, math.Max(x[0], math.Max(x[1], x[2])))
	}
	xs, ys := []float64{}, []float64{}
	for _, x := range cat.Xs {
		if x[2] < slabFrac*width {
			xs, ys = append(xs, x[0]), append(ys, x[1])
		}
	}

	plt.Figure(plt.FigSize(8, 8))
	plt.Plot(xs, ys, "ok")
	plt.XLabel(`$X$ $[{\rm Mpc}/h]$`, plt.FontSize(16))
	plt.YLabel(`$Y$ $[{\rm Mpc}/h]$`, plt.FontSize(16))
	plt.XLim(0, width)
	plt.YLim(0, width)
	plt.SaveFig(filepath.Join(dir, "halo_xy.png"))

	plt.Execute()
	return nil
}

// readCatalog reads the cube catalog in dir in whichever format it was
// written.
func readCatalog(dir string) (*io.Catalog, error) {
	csvName := filepath.Join(dir, io.CubeCSVFile)
	if _, err := os.Stat(csvName); err == nil {
		return io.ReadCatalogCSV(csvName)
	}
	return io.ReadCatalogNpy(dir)
}

// massFunction histograms masses into bins log-spaced bins.
func massFunction(ms []float64, bins int) (edges, counts []float64) {
	sorted := append([]float64{}, ms...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	hi = math.Nextafter(hi, math.Inf(+1))
	if hi/lo < 1+1e-6 {
		bins = 1
	}
	edges = floats.LogSpan(make([]float64, bins+1), lo, hi)
	edges[0], edges[bins] = lo, hi

	counts = stat.Histogram(nil, edges, sorted, nil)
	return edges, counts
}
