package geom

import (
	"math/bits"

	"github.com/phil-mansfield/halopop/errs"
)

// subsetOrder is the order in which images are appended: the three faces,
// then the three edges, then the corner. Bit i of a subset corresponds to
// axis i.
var subsetOrder = [7]uint8{1, 2, 4, 3, 5, 6, 7}

// PadStats records how much a call to Pad grew a particle set.
type PadStats struct {
	Original, Padded int
}

// Ratio returns len(padded)/len(original).
func (s PadStats) Ratio() float64 {
	if s.Original == 0 {
		return 1
	}
	return float64(s.Padded) / float64(s.Original)
}

// Pad extends a periodic particle set with the images of every particle that
// lies within pad of a face, edge, or corner of the box [0, L)^3. A
// coordinate below pad produces an image shifted by +L and a coordinate above
// L - pad produces an image shifted by -L. A coordinate exactly on either
// boundary is interior.
//
// The originals are returned first, unchanged and in order. The images
// follow, grouped by the set of shifted axes (x, y, z, xy, xz, yz, xyz), with
// each group in the order of the original particles. A particle near one face
// has one image, near an edge three, and near a corner seven.
func Pad(xs, vs []Vec, L, pad float64) (padXs, padVs []Vec, stats PadStats, err error) {
	if len(xs) != len(vs) {
		return nil, nil, stats, errs.Shapef(
			"%d particle positions but %d particle velocities",
			len(xs), len(vs),
		)
	}
	if L <= 0 {
		return nil, nil, stats, errs.Configf(
			"box width must be positive, but is %g", L,
		)
	} else if pad <= 0 || pad >= L/2 {
		return nil, nil, stats, errs.Configf(
			"padding width must be in range (0, %g), but is %g", L/2, pad,
		)
	}

	// near[i] has bit j set if particle i is within pad of a face along
	// axis j, and high[i] has bit j set if that face is the upper one.
	near := make([]uint8, len(xs))
	high := make([]uint8, len(xs))
	images := 0
	for i := range xs {
		for j := 0; j < 3; j++ {
			if xs[i][j] < pad {
				near[i] |= 1 << j
			} else if xs[i][j] > L-pad {
				near[i] |= 1 << j
				high[i] |= 1 << j
			}
		}
		images += (1 << bits.OnesCount8(near[i])) - 1
	}

	padXs = make([]Vec, len(xs), len(xs)+images)
	padVs = make([]Vec, len(vs), len(vs)+images)
	copy(padXs, xs)
	copy(padVs, vs)

	for _, subset := range subsetOrder {
		for i := range xs {
			if near[i]&subset != subset {
				continue
			}
			x := xs[i]
			for j := 0; j < 3; j++ {
				if subset&(1<<j) == 0 {
					continue
				}
				if high[i]&(1<<j) != 0 {
					x[j] -= L
				} else {
					x[j] += L
				}
			}
			padXs = append(padXs, x)
			padVs = append(padVs, vs[i])
		}
	}

	stats = PadStats{Original: len(xs), Padded: len(padXs)}
	return padXs, padVs, stats, nil
}
