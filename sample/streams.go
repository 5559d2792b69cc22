/*package sample draws the stochastic parts of a halo catalog: positions
within a count field and masses within mass bins. It also owns the random
streams used by every stochastic stage of the pipeline.*/
package sample

import (
	"math/rand/v2"
)

// Stage identifies a stochastic stage of the pipeline. Each stage and bin
// gets its own stream, so changing how one stage consumes random numbers
// never changes the output of another.
type Stage uint64

const (
	CountStage Stage = iota + 1
	PositionStage
	MassStage
)

// Streams hands out independent, reproducible random sources derived from a
// single run seed.
type Streams struct {
	Seed uint64
}

// Source returns the source for bin i of the given stage.
func (s Streams) Source(stage Stage, i int) rand.Source {
	return rand.NewPCG(s.Seed, uint64(stage)<<32|uint64(i))
}
