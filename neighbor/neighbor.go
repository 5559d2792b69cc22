/*package neighbor finds the nearest particles to arbitrary points and uses
them to assign velocities. The spatial structure is hidden behind Index, so
the pipeline does not care whether it talks to a k-d tree or a linear scan.*/
package neighbor

import (
	"sort"

	"github.com/phil-mansfield/halopop/geom"
)

// Index answers k-nearest-neighbor queries against a fixed set of points.
// Implementations must be safe for concurrent queries.
type Index interface {
	// Len returns the number of indexed points.
	Len() int
	// Query appends the indices of the k points closest to x to out and
	// returns it. Neighbors are ordered by increasing distance, with ties
	// broken by increasing index. Which of several points tied at the k-th
	// distance is returned depends on the implementation. k must be in
	// [1, Len()].
	Query(x geom.Vec, k int, out []int) []int
}

// Builder creates an Index over a set of points.
type Builder func(xs []geom.Vec) (Index, error)

// Builders maps the names used in config files to Builders.
var Builders = map[string]Builder{
	"KDTree":     NewKDTree,
	"BruteForce": NewBruteForce,
}

// candidate is a neighbor found during a query.
type candidate struct {
	idx   int
	dist2 float64
}

func sortCandidates(cs []candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].dist2 != cs[j].dist2 {
			return cs[i].dist2 < cs[j].dist2
		}
		return cs[i].idx < cs[j].idx
	})
}

// BruteForce is an Index which checks every point on every query. It is
// only useful for tiny particle sets and as a reference for other Indexes.
type BruteForce struct {
	xs []geom.Vec
}

// NewBruteForce creates a BruteForce Index. xs is not copied.
func NewBruteForce(xs []geom.Vec) (Index, error) {
	return &BruteForce{xs}, nil
}

func (bf *BruteForce) Len() int { return len(bf.xs) }

func (bf *BruteForce) Query(x geom.Vec, k int, out []int) []int {
	cs := make([]candidate, len(bf.xs))
	for i := range bf.xs {
		cs[i] = candidate{i, x.Dist2(bf.xs[i])}
	}
	sortCandidates(cs)
	for _, c := range cs[:k] {
		out = append(out, c.idx)
	}
	return out
}
