/*package bias maps a density contrast field onto expected and sampled halo
counts using a truncated power-law bias model, one set of coefficients per
mass bin.*/
package bias

import (
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/halopop/errs"
)

// NumParams is the number of coefficients per mass bin.
const NumParams = 4

// Params holds the truncated power-law coefficients for a single mass bin.
// The mean number of halos in a cell with density contrast rho is
//
//	n(rho) = NMean * (1 + rho)^Beta * exp(-((1 + rho)/RhoG)^(-EpsilonG))
//
// The exponential cuts the power law off in underdense cells.
type Params struct {
	NMean, Beta, EpsilonG, RhoG float64
}

// NewParams converts a (bins, NumParams) table of coefficients, as stored in
// bias-parameter files, into Params.
func NewParams(rows [][]float64) ([]Params, error) {
	if len(rows) == 0 {
		return nil, errs.Configf("no bias parameters given")
	}

	ps := make([]Params, len(rows))
	for i, row := range rows {
		if len(row) != NumParams {
			return nil, errs.Shapef(
				"bias parameters for bin %d have %d coefficients, not %d",
				i, len(row), NumParams,
			)
		}
		ps[i] = Params{row[0], row[1], row[2], row[3]}
		if err := ps[i].check(i); err != nil {
			return nil, err
		}
	}

	return ps, nil
}

func (p *Params) check(bin int) error {
	for _, x := range []float64{p.NMean, p.Beta, p.EpsilonG, p.RhoG} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errs.Configf("bin %d has non-finite bias parameters %v", bin, *p)
		}
	}
	if p.RhoG <= 0 {
		return errs.Configf("bin %d has non-positive RhoG, %g", bin, p.RhoG)
	}
	return nil
}

// Mean returns the expected number of halos in a cell with density contrast
// rho. ok is false if the model evaluated to a negative or non-finite value,
// in which case the returned count has been clamped to zero.
func (p *Params) Mean(rho float64) (n float64, ok bool) {
	d := 1 + rho
	if d <= 0 {
		// The cutoff drives the model to zero as d approaches zero from
		// above, so empty cells are not degenerate.
		return 0, true
	}

	cut := math.Pow(d/p.RhoG, -p.EpsilonG)
	n = p.NMean * math.Exp(p.Beta*math.Log(d)-cut)

	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, false
	}
	return n, true
}

// CountMode selects how cell counts are produced from the model.
type CountMode int

const (
	// Mean uses the expected count of each cell directly.
	Mean CountMode = iota
	// Poisson draws each cell's count from a Poisson distribution with the
	// expected count as its mean.
	Poisson
	EndCountMode
)

var countModeNames = []string{"Mean", "Poisson"}

func (m CountMode) String() string {
	if m < 0 || m >= EndCountMode {
		return fmt.Sprintf("CountMode(%d)", int(m))
	}
	return countModeNames[m]
}

// ParseCountMode returns the CountMode with the given (case-insensitive)
// name.
func ParseCountMode(s string) (CountMode, error) {
	for m := Mean; m < EndCountMode; m++ {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, errs.Configf(
		"count mode '%s' is not one of [%s]", s, strings.Join(countModeNames, " | "),
	)
}
