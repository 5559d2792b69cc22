package halopop

import (
	"runtime"
	"time"

	"github.com/phil-mansfield/halopop/bias"
	"github.com/phil-mansfield/halopop/errs"
	"github.com/phil-mansfield/halopop/geom"
	"github.com/phil-mansfield/halopop/io"
	"github.com/phil-mansfield/halopop/neighbor"
)

// Config holds every setting of a run.
type Config struct {
	// BoxWidth is the width of the periodic box, L.
	BoxWidth float64
	// GridWidth is the number of density cells on a side, N.
	GridWidth int
	// PadWidth is the width of the periodic padding, Lpad.
	PadWidth float64
	// Neighbors is the number of particles averaged per halo, k.
	Neighbors     int
	NeighborIndex string
	CountMode     bias.CountMode
	// PositionScatter is the standard deviation of the Gaussian scatter
	// added to halo positions, in grid cells.
	PositionScatter float64
	Basis           [3][3]int
	Seed            uint64
	Threads         int

	// Log enables progress logging.
	Log bool
}

// DefaultConfig returns the configuration of a 3000 Mpc/h, 384^3 run.
func DefaultConfig() Config {
	return Config{
		BoxWidth:      3000,
		GridWidth:     384,
		PadWidth:      10,
		Neighbors:     5,
		NeighborIndex: "KDTree",
		CountMode:     bias.Mean,
		Basis:         geom.DefaultCuboidBasis,
		Seed:          uint64(time.Now().UnixNano()),
		Threads:       runtime.NumCPU(),
	}
}

// NewConfig converts a [Populate] config file into a Config. A missing seed
// is replaced by a time-based one.
func NewConfig(con *io.PopulateConfig) (Config, error) {
	cfg := DefaultConfig()

	basis, err := con.CuboidBasis()
	if err != nil {
		return cfg, errs.Configf("%s", err.Error())
	}
	mode, err := bias.ParseCountMode(con.CountMode)
	if err != nil {
		return cfg, err
	}

	cfg.BoxWidth, cfg.GridWidth = con.BoxWidth, con.GridWidth
	cfg.PadWidth, cfg.Neighbors = con.PadWidth, con.Neighbors
	cfg.NeighborIndex, cfg.CountMode = con.NeighborIndex, mode
	cfg.PositionScatter, cfg.Basis = con.PositionScatter, basis
	if con.ValidSeed() {
		cfg.Seed = uint64(con.Seed)
	}
	if con.ValidThreads() {
		cfg.Threads = con.Threads
	}

	return cfg, cfg.Validate()
}

// Validate returns a *errs.Config error if the Config can't describe a run.
func (cfg *Config) Validate() error {
	switch {
	case !(cfg.BoxWidth > 0):
		return errs.Configf("box width must be positive, but is %g", cfg.BoxWidth)
	case cfg.GridWidth <= 0:
		return errs.Configf("grid width must be positive, but is %d", cfg.GridWidth)
	case !(cfg.PadWidth > 0 && cfg.PadWidth < cfg.BoxWidth/2):
		return errs.Configf(
			"pad width must be in (0, %g), but is %g",
			cfg.BoxWidth/2, cfg.PadWidth,
		)
	case cfg.Neighbors < 1:
		return errs.Configf("neighbor count must be positive, but is %d",
			cfg.Neighbors)
	case cfg.CountMode < 0 || cfg.CountMode >= bias.EndCountMode:
		return errs.Configf("unknown count mode %v", cfg.CountMode)
	case !(cfg.PositionScatter >= 0):
		return errs.Configf("position scatter must be non-negative, but is %g",
			cfg.PositionScatter)
	case cfg.Threads < 1:
		return errs.Configf("thread count must be positive, but is %d",
			cfg.Threads)
	}

	if _, ok := neighbor.Builders[cfg.NeighborIndex]; !ok {
		return errs.Configf("unknown neighbor index '%s'", cfg.NeighborIndex)
	}
	_, err := geom.NewCuboid(cfg.Basis[0], cfg.Basis[1], cfg.Basis[2])
	return err
}

// ForIndex returns the Config of realization i. Its seed is offset by i so
// that realizations in a batch draw independent streams.
func (cfg Config) ForIndex(i int) Config {
	cfg.Seed += uint64(i)
	return cfg
}
