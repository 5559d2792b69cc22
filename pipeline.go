package halopop

import (
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"

	"github.com/phil-mansfield/halopop/bias"
	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
	"github.com/phil-mansfield/halopop/io"
	"github.com/phil-mansfield/halopop/neighbor"
	"github.com/phil-mansfield/halopop/sample"
)

const (
	DensityFile  = "rho.npy"
	PositionFile = "ppos.npy"
	VelocityFile = "pvel.npy"
)

// Result is the output of a run.
type Result struct {
	// Cube is the catalog in the periodic box and Cuboid is the same catalog
	// after remapping.
	Cube, Cuboid *Catalog
	Geometry     *geom.Cuboid

	// Expected is the summed count field of each bin and Targets is the
	// number of halos placed in it.
	Expected   []float64
	Targets    []int
	Degenerate []int
	Pad        geom.PadStats
	Timings    []Timing
}

// Run populates a single realization. in is not modified.
func Run(cfg Config, in *Inputs) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkInputs(&cfg, in); err != nil {
		return nil, err
	}

	c, err := geom.NewCuboid(cfg.Basis[0], cfg.Basis[1], cfg.Basis[2])
	if err != nil {
		return nil, err
	}

	L, bins := cfg.BoxWidth, len(in.Bias)
	streams := sample.Streams{Seed: cfg.Seed}
	timer := &stageTimer{log: cfg.Log}
	res := &Result{Geometry: c, Cube: &Catalog{}, Cuboid: &Catalog{}}

	var padXs, padVs []geom.Vec
	err = timer.run("Padding", func() error {
		var err error
		padXs, padVs, res.Pad, err = geom.Pad(
			in.Particles.Xs, in.Particles.Vs, L, cfg.PadWidth,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cfg.Log {
		log.Printf("Padded %d particles to %d (ratio %.4f).",
			res.Pad.Original, res.Pad.Padded, res.Pad.Ratio())
	}

	var counts *bias.CountField
	err = timer.run("Bias counts", func() error {
		var err error
		counts, res.Degenerate, err = bias.SampleCounts(
			in.Density.Rho, in.Density.Cells, in.Bias,
			cfg.CountMode, streams, cfg.Threads,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Targets = counts.Targets()
	res.Expected = make([]float64, bins)
	for i := range res.Expected {
		res.Expected[i] = counts.Total(i)
		if res.Degenerate[i] > 0 {
			log.Printf(
				"WARNING: bias model was degenerate in %d cells of mass bin "+
					"%d. Those cells have a count of zero.",
				res.Degenerate[i], i,
			)
		}
	}
	timer.logMem()

	err = timer.run("Halo positions", func() error {
		res.Cube.Xs = make([][]geom.Vec, bins)
		for i := range res.Cube.Xs {
			var err error
			res.Cube.Xs[i], err = sample.Positions(
				counts.Bins[i], counts.Cells, L, res.Targets[i],
				cfg.PositionScatter,
				streams.Source(sample.PositionStage, i),
			)
			if err != nil {
				return fmt.Errorf("mass bin %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	counts = nil

	err = timer.run("Halo velocities", func() error {
		idx, err := neighbor.Builders[cfg.NeighborIndex](padXs)
		if err != nil {
			return err
		}
		res.Cube.Vs, err = neighbor.AssignVelocities(
			idx, padVs, res.Cube.Xs, cfg.Neighbors, cfg.Threads,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	timer.logMem()

	err = timer.run("Halo masses", func() error {
		var err error
		res.Cube.Ms, err = sample.Masses(
			res.Targets, in.MassEdges,
			func(i int) rand.Source { return streams.Source(sample.MassStage, i) },
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = timer.run("Cuboid remap", func() error {
		res.Cuboid.Xs = make([][]geom.Vec, bins)
		res.Cuboid.Vs = make([][]geom.Vec, bins)
		res.Cuboid.Ms = res.Cube.Ms
		for i := 0; i < bins; i++ {
			var err error
			res.Cuboid.Xs[i], res.Cuboid.Vs[i], err = geom.Remap(
				res.Cube.Xs[i], res.Cube.Vs[i], L, c,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Timings = timer.timings
	return res, nil
}

// checkInputs returns the first inconsistency between in and cfg.
func checkInputs(cfg *Config, in *Inputs) error {
	switch {
	case in == nil || in.Density == nil || in.Particles == nil:
		return errs.Configf("missing inputs")
	case in.Density.Cells != cfg.GridWidth:
		return errs.Shapef(
			"density field has %d cells on a side, but the grid width is %d",
			in.Density.Cells, cfg.GridWidth,
		)
	case len(in.Density.Rho) != in.Density.Cells*in.Density.Cells*in.Density.Cells:
		return errs.Shapef(
			"density field has %d cells, which is not %d^3",
			len(in.Density.Rho), in.Density.Cells,
		)
	case len(in.Particles.Xs) != len(in.Particles.Vs):
		return errs.Shapef(
			"%d particle positions but %d particle velocities",
			len(in.Particles.Xs), len(in.Particles.Vs),
		)
	case len(in.Bias) == 0:
		return errs.Configf("no bias parameters given")
	}
	return sample.CheckEdges(in.MassEdges, len(in.Bias))
}

// Load reads the inputs of realization index. Particle positions are wrapped
// into the box.
func Load(con *io.PopulateConfig, cfg *Config, index int) (*Inputs, error) {
	dir := con.InputDir(index)

	rho, cells, err := io.ReadGrid(filepath.Join(dir, DensityFile))
	if err != nil {
		return nil, err
	}
	density, err := NewDensityField(rho, cells)
	if err != nil {
		return nil, err
	}

	xs, err := io.ReadVecs(filepath.Join(dir, PositionFile))
	if err != nil {
		return nil, err
	}
	vs, err := io.ReadVecs(filepath.Join(dir, VelocityFile))
	if err != nil {
		return nil, err
	}
	for i := range xs {
		xs[i] = geom.WrapVec(xs[i], cfg.BoxWidth)
	}
	ps, err := NewParticles(xs, vs)
	if err != nil {
		return nil, err
	}

	rows, edges, err := io.ReadBias(
		con.BiasDir, index, bias.NumParams, con.BiasFormat,
	)
	if err != nil {
		return nil, err
	}
	params, err := bias.NewParams(rows)
	if err != nil {
		return nil, err
	}

	return &Inputs{density, ps, params, edges}, nil
}

// Write writes the catalogs and the run summary of realization index. Either
// every file is written or none are.
func Write(
	dir, format string, index int, cfg *Config, in *Inputs, res *Result,
) error {
	st, err := io.NewStaged(dir)
	if err != nil {
		return err
	}

	err = io.WriteCatalogs(
		st, format, res.Cube.Flatten(), res.Cuboid.Flatten(),
	)
	if err == nil {
		err = st.WriteSummary(Summarize(index, cfg, in, res))
	}
	if err != nil {
		st.Abort()
		return err
	}
	return st.Commit()
}

// Summarize collects the settings and diagnostics of a run.
func Summarize(index int, cfg *Config, in *Inputs, res *Result) *io.Summary {
	lengths := res.Geometry.Lengths()
	s := &io.Summary{
		Index:           index,
		Seed:            cfg.Seed,
		BoxWidth:        cfg.BoxWidth,
		GridWidth:       cfg.GridWidth,
		PadWidth:        cfg.PadWidth,
		Neighbors:       cfg.Neighbors,
		NeighborIndex:   cfg.NeighborIndex,
		CountMode:       cfg.CountMode.String(),
		PositionScatter: cfg.PositionScatter,
		CuboidBasis:     cfg.Basis,
		CuboidLengths:   [3]float64{lengths[0], lengths[1], lengths[2]},
		Particles:       res.Pad.Original,
		PaddedParticles: res.Pad.Padded,
		PadRatio:        res.Pad.Ratio(),
		Halos:           res.Cube.Len(),
	}

	for i := range res.Targets {
		s.Bins = append(s.Bins, io.BinSummary{
			Bin:        i,
			MassLow:    in.MassEdges[i],
			MassHigh:   in.MassEdges[i+1],
			Expected:   res.Expected[i],
			Target:     res.Targets[i],
			Degenerate: res.Degenerate[i],
		})
	}
	for _, t := range res.Timings {
		s.Stages = append(s.Stages, io.StageSummary{
			Name: t.Stage, Seconds: t.Elapsed.Seconds(),
		})
	}
	return s
}
