package neighbor

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/phil-mansfield/halopop/geom"
)

// point is a particle position that remembers its index in the original
// particle arrays. It implements kdtree.Comparable.
type point struct {
	x   geom.Vec
	idx int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	return p.x[d] - q.x[d]
}

func (p point) Dims() int { return 3 }

func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	return p.x.Dist2(q.x)
}

// points implements kdtree.Interface.
type points []point

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int                      { return len(p) }
func (p points) Pivot(d kdtree.Dim) int {
	return plane{points: p, Dim: d}.Pivot()
}
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane implements kdtree.SortSlicer for a single dimension of points.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	return p.points[i].x[p.Dim] < p.points[j].x[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// KDTree is an Index backed by a gonum k-d tree. Building it is O(n log n)
// and queries are O(log n) for the clustered particle sets produced by
// N-body codes.
type KDTree struct {
	tree *kdtree.Tree
	n    int
}

// NewKDTree builds a KDTree over xs. xs is copied and left unchanged.
func NewKDTree(xs []geom.Vec) (Index, error) {
	ps := make(points, len(xs))
	for i := range xs {
		ps[i] = point{xs[i], i}
	}
	return &KDTree{tree: kdtree.New(ps, false), n: len(xs)}, nil
}

func (t *KDTree) Len() int { return t.n }

func (t *KDTree) Query(x geom.Vec, k int, out []int) []int {
	keep := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keep, point{x, -1})

	cs := make([]candidate, 0, k)
	for _, c := range keep.Heap {
		// The keeper starts with a sentinel that survives if the tree has
		// fewer than k points.
		if c.Comparable == nil {
			continue
		}
		cs = append(cs, candidate{c.Comparable.(point).idx, c.Dist})
	}
	sortCandidates(cs)

	for _, c := range cs {
		out = append(out, c.idx)
	}
	return out
}
