package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
)

const (
	PosFile       = "halo_pos.npy"
	VelFile       = "halo_vel.npy"
	MassFile      = "halo_mass.npy"
	BinFile       = "halo_bin.npy"
	CuboidPosFile = "halo_cuboid_pos.npy"
	CuboidVelFile = "halo_cuboid_vel.npy"
	CubeCSVFile   = "halo_cube.csv"
	CuboidCSVFile = "halo_cuboid.csv"
	SummaryFile   = "halopop_run.yaml"
)

// Catalog is a flat halo catalog. All slices have the same length.
type Catalog struct {
	Xs, Vs []geom.Vec
	Ms     []float64
	Bins   []int
}

func (cat *Catalog) check() error {
	n := len(cat.Xs)
	if len(cat.Vs) != n || len(cat.Ms) != n || len(cat.Bins) != n {
		return errs.Shapef(
			"catalog has %d positions, %d velocities, %d masses, and %d bins",
			len(cat.Xs), len(cat.Vs), len(cat.Ms), len(cat.Bins),
		)
	}
	return nil
}

// WriteCatalogs stages the cube-frame and cuboid-frame catalogs in st using
// the given format, "Npy" or "CSV".
func WriteCatalogs(st *Staged, format string, cube, cuboid *Catalog) error {
	if err := cube.check(); err != nil {
		return err
	}
	if err := cuboid.check(); err != nil {
		return err
	}

	switch format {
	case "Npy":
		return WriteCatalogNpy(st, cube, cuboid)
	case "CSV":
		if err := WriteCatalogCSV(st, CubeCSVFile, cube); err != nil {
			return err
		}
		return WriteCatalogCSV(st, CuboidCSVFile, cuboid)
	}
	return errs.Configf("unrecognized output format '%s'", format)
}

// WriteCatalogNpy stages one .npy file per column. Masses and bins are shared
// between the two frames and are written once.
func WriteCatalogNpy(st *Staged, cube, cuboid *Catalog) error {
	if err := st.WriteVecs(PosFile, cube.Xs); err != nil {
		return err
	}
	if err := st.WriteVecs(VelFile, cube.Vs); err != nil {
		return err
	}
	if err := st.WriteFloats(MassFile, cube.Ms); err != nil {
		return err
	}
	if err := st.WriteInts(BinFile, cube.Bins); err != nil {
		return err
	}
	if err := st.WriteVecs(CuboidPosFile, cuboid.Xs); err != nil {
		return err
	}
	return st.WriteVecs(CuboidVelFile, cuboid.Vs)
}

type haloRecord struct {
	X    float64 `csv:"x"`
	Y    float64 `csv:"y"`
	Z    float64 `csv:"z"`
	Vx   float64 `csv:"vx"`
	Vy   float64 `csv:"vy"`
	Vz   float64 `csv:"vz"`
	Mass float64 `csv:"mass"`
	Bin  int     `csv:"bin"`
}

// WriteCatalogCSV stages a CSV file with one row per halo.
func WriteCatalogCSV(st *Staged, name string, cat *Catalog) error {
	records := make([]*haloRecord, len(cat.Xs))
	for i := range records {
		x, v := cat.Xs[i], cat.Vs[i]
		records[i] = &haloRecord{
			X: x[0], Y: x[1], Z: x[2],
			Vx: v[0], Vy: v[1], Vz: v[2],
			Mass: cat.Ms[i], Bin: cat.Bins[i],
		}
	}

	f, err := st.Create(name)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	return nil
}

// ReadCatalogNpy reads the cube-frame positions, masses, and bins written by
// WriteCatalogNpy.
func ReadCatalogNpy(dir string) (*Catalog, error) {
	join := func(name string) string { return filepath.Join(dir, name) }

	xs, err := ReadVecs(join(PosFile))
	if err != nil {
		return nil, err
	}
	vs, err := ReadVecs(join(VelFile))
	if err != nil {
		return nil, err
	}
	ms, err := ReadFloats(join(MassFile))
	if err != nil {
		return nil, err
	}
	bins, err := readInts(join(BinFile))
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Xs: xs, Vs: vs, Ms: ms, Bins: bins}
	if err := cat.check(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ReadCatalogCSV reads a catalog written by WriteCatalogCSV.
func ReadCatalogCSV(fname string) (*Catalog, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records := []*haloRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", fname, err)
	}

	cat := &Catalog{
		Xs:   make([]geom.Vec, len(records)),
		Vs:   make([]geom.Vec, len(records)),
		Ms:   make([]float64, len(records)),
		Bins: make([]int, len(records)),
	}
	for i, r := range records {
		cat.Xs[i] = geom.Vec{r.X, r.Y, r.Z}
		cat.Vs[i] = geom.Vec{r.Vx, r.Vy, r.Vz}
		cat.Ms[i], cat.Bins[i] = r.Mass, r.Bin
	}
	return cat, nil
}
