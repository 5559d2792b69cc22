package io

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"
)

const (
	ExamplePopulateFile = `[Populate]

#######################
# Required Parameters #
#######################

# Directory containing the output of the simulation provider: rho.npy (the
# (N, N, N) density contrast grid), ppos.npy and pvel.npy (the (M, 3) particle
# positions and velocities). This is a printf format string which is given
# the realization index, e.g. path/to/sims/L3000-N384/%d.
Input = path/to/sims/L3000-N384/%d

# Directory containing the pre-fit bias parameters: one <index>.npy file of
# shape (K, 4) per realization and a shared medges.npy of shape (K + 1,).
BiasDir = path/to/bias_fit

# Width of the simulation box in Mpc/h and the number of density grid cells
# on one side.
BoxWidth = 3000
GridWidth = 384

#######################
# Optional Parameters #
#######################

# Directory the halo catalogs are written to. Also a printf format string
# which is given the realization index. Defaults to the input directory.
# Output = path/to/halos/%d

# The realization to run. Can be overridden with the -Index flag.
# Index = 0

# Inclusive range of realizations to run one after another. If set, Index is
# ignored.
# IterationStart = 0
# IterationEnd = 100

# Width of the periodic padding added around the particles before velocities
# are assigned, in Mpc/h. Must be less than half of BoxWidth.
# PadWidth = 10

# Number of nearest particles whose velocities are averaged for each halo.
# Neighbors = 5

# Index used for neighbor searches. Must be one of [ KDTree | BruteForce ].
# NeighborIndex = KDTree

# How cell counts are drawn from the bias model. Must be one of
# [ Mean | Poisson ]. Mean uses expected counts directly, Poisson draws each
# cell's count from a Poisson distribution.
# CountMode = Mean

# Gaussian scatter added to halo positions, in units of grid cells.
# PositionScatter = 0

# Integer basis vectors of the cuboid remapping. They must form a matrix with
# determinant +1 or -1.
# CuboidU1 = 1 1 0
# CuboidU2 = 0 0 1
# CuboidU3 = 1 0 0

# Format of the bias parameter files, [ Npy | Text ]. Text files are
# whitespace-separated tables named <index>.txt and medges.txt.
# BiasFormat = Npy

# Format of the halo catalogs, [ Npy | CSV ].
# OutputFormat = Npy

# Seed for all random draws. Any non-negative value, including 0, is used as
# is. If unset or negative, a time-based seed is used and written
# to the run summary.
# Seed = 1

# Number of threads used. Default is the number of logical cores.
# Threads = 16

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`
)

type SharedConfig struct {
	// Required
	Input, Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type PopulateConfig struct {
	SharedConfig

	// Required
	BiasDir   string
	BoxWidth  float64
	GridWidth int

	// Optional
	Index                        int
	IterationStart, IterationEnd int
	PadWidth                     float64
	Neighbors                    int
	NeighborIndex                string
	CountMode                    string
	PositionScatter              float64
	CuboidU1, CuboidU2, CuboidU3 string
	BiasFormat, OutputFormat     string
	Seed                         int
	Threads                      int
}

type PopulateWrapper struct {
	Populate PopulateConfig
}

func DefaultPopulateWrapper() *PopulateWrapper {
	con := PopulateConfig{}
	con.Index = -1
	con.IterationStart = -1
	con.IterationEnd = -1
	con.Seed = -1
	con.PadWidth = 10
	con.Neighbors = 5
	con.NeighborIndex = "KDTree"
	con.CountMode = "Mean"
	con.CuboidU1, con.CuboidU2, con.CuboidU3 = "1 1 0", "0 0 1", "1 0 0"
	con.BiasFormat = "Npy"
	con.OutputFormat = "Npy"
	return &PopulateWrapper{con}
}

func (con *PopulateConfig) ValidBiasDir() bool {
	return con.BiasDir != ""
}
func (con *PopulateConfig) ValidBoxWidth() bool {
	return con.BoxWidth > 0
}
func (con *PopulateConfig) ValidGridWidth() bool {
	return con.GridWidth > 0
}
func (con *PopulateConfig) ValidIndex() bool {
	return con.Index >= 0
}
func (con *PopulateConfig) ValidIterationStart() bool {
	return con.IterationStart >= 0
}
func (con *PopulateConfig) ValidIterationEnd() bool {
	return con.IterationEnd >= con.IterationStart && con.IterationEnd >= 0
}
func (con *PopulateConfig) ValidPadWidth() bool {
	return con.PadWidth > 0 && con.PadWidth < con.BoxWidth/2
}
func (con *PopulateConfig) ValidNeighbors() bool {
	return con.Neighbors > 0
}
func (con *PopulateConfig) ValidNeighborIndex() bool {
	return con.NeighborIndex == "KDTree" || con.NeighborIndex == "BruteForce"
}
func (con *PopulateConfig) ValidPositionScatter() bool {
	return con.PositionScatter >= 0
}
func (con *PopulateConfig) ValidCuboidBasis() bool {
	_, err := con.CuboidBasis()
	return err == nil
}
func (con *PopulateConfig) ValidBiasFormat() bool {
	return con.BiasFormat == "Npy" || con.BiasFormat == "Text"
}
func (con *PopulateConfig) ValidOutputFormat() bool {
	return con.OutputFormat == "Npy" || con.OutputFormat == "CSV"
}
func (con *PopulateConfig) ValidSeed() bool {
	return con.Seed >= 0
}
func (con *PopulateConfig) ValidThreads() bool {
	return con.Threads > 0
}

// CheckInit returns a descriptive error for the first invalid value in the
// config. CountMode is checked when the config is converted into a run.
func (con *PopulateConfig) CheckInit() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidBiasDir():
		return fmt.Errorf("Invalid/non-existent 'BiasDir' value.")
	case !con.ValidBoxWidth():
		return fmt.Errorf("Invalid/non-existent 'BoxWidth' value.")
	case !con.ValidGridWidth():
		return fmt.Errorf("Invalid/non-existent 'GridWidth' value.")
	case !con.ValidPadWidth():
		return fmt.Errorf(
			"'PadWidth' must be in range (0, %g), but is %g.",
			con.BoxWidth/2, con.PadWidth,
		)
	case !con.ValidNeighbors():
		return fmt.Errorf("Invalid 'Neighbors' value.")
	case !con.ValidNeighborIndex():
		return fmt.Errorf(
			"'NeighborIndex' must be one of [KDTree | BruteForce]. '%s' is "+
				"not recognized.", con.NeighborIndex,
		)
	case !con.ValidPositionScatter():
		return fmt.Errorf("Invalid 'PositionScatter' value.")
	case !con.ValidBiasFormat():
		return fmt.Errorf(
			"'BiasFormat' must be one of [Npy | Text]. '%s' is not "+
				"recognized.", con.BiasFormat,
		)
	case !con.ValidOutputFormat():
		return fmt.Errorf(
			"'OutputFormat' must be one of [Npy | CSV]. '%s' is not "+
				"recognized.", con.OutputFormat,
		)
	case con.ValidIterationStart() != (con.IterationEnd >= 0):
		return fmt.Errorf("Only one of IterationStart and IterationEnd is set.")
	case con.ValidIterationStart() && !con.ValidIterationEnd():
		return fmt.Errorf("IterationEnd is smaller than IterationStart.")
	}

	if _, err := con.CuboidBasis(); err != nil {
		return err
	}
	return nil
}

// CuboidBasis parses the three cuboid basis vectors.
func (con *PopulateConfig) CuboidBasis() ([3][3]int, error) {
	basis := [3][3]int{}
	for i, str := range []string{con.CuboidU1, con.CuboidU2, con.CuboidU3} {
		fields := strings.Fields(strings.ReplaceAll(str, ",", " "))
		if len(fields) != 3 {
			return basis, fmt.Errorf(
				"'CuboidU%d' must contain three integers, but is '%s'.",
				i+1, str,
			)
		}
		for j, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return basis, fmt.Errorf(
					"'CuboidU%d' must contain three integers, but is '%s'.",
					i+1, str,
				)
			}
			basis[i][j] = n
		}
	}
	return basis, nil
}

// Indices returns the realization indices the config asks for. override is
// used instead of the config's values if it is non-negative.
func (con *PopulateConfig) Indices(override int) ([]int, error) {
	switch {
	case override >= 0:
		return []int{override}, nil
	case con.ValidIterationStart():
		idxs := []int{}
		for i := con.IterationStart; i <= con.IterationEnd; i++ {
			idxs = append(idxs, i)
		}
		return idxs, nil
	case con.ValidIndex():
		return []int{con.Index}, nil
	}
	return nil, fmt.Errorf(
		"No realization given: set 'Index', 'IterationStart' and " +
			"'IterationEnd', or use the -Index flag.",
	)
}

// InputDir returns the input directory of realization i.
func (con *PopulateConfig) InputDir(i int) string {
	return formatDir(con.Input, i)
}

// OutputDir returns the output directory of realization i.
func (con *PopulateConfig) OutputDir(i int) string {
	if !con.ValidOutput() {
		return con.InputDir(i)
	}
	return formatDir(con.Output, i)
}

func formatDir(format string, i int) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, i)
}

// ReadPopulateConfig reads and checks a [Populate] config file.
func ReadPopulateConfig(fname string) (*PopulateConfig, error) {
	wrap := DefaultPopulateWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	con := &wrap.Populate
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}
