package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// periodic 3D grid of cubic cells covering a simulation box. Indices use
// x-major ordering, the same layout as a C-ordered (N, N, N) array with x as
// the first axis.
type Grid struct {
	Length, Area, Volume int
	// Width is the width of the whole box and CellWidth the width of a
	// single cell.
	Width, CellWidth float64
}

// NewGrid returns a new Grid instance with cells cells on a side.
func NewGrid(cells int, width float64) *Grid {
	g := &Grid{}
	g.Init(cells, width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(cells int, width float64) {
	g.Length = cells
	g.Area = cells * cells
	g.Volume = cells * cells * cells

	g.Width = width
	g.CellWidth = width / float64(cells)
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x*g.Area + y*g.Length + z
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx / g.Area
	y = (idx % g.Area) / g.Length
	z = idx % g.Length
	return x, y, z
}

// PeriodicIdx returns the index of the cell at the given coordinates after
// wrapping them around the box.
func (g *Grid) PeriodicIdx(x, y, z int) int {
	return g.Idx(pMod(x, g.Length), pMod(y, g.Length), pMod(z, g.Length))
}

// CellOrigin returns the position of the lowermost corner of a cell.
func (g *Grid) CellOrigin(idx int) Vec {
	x, y, z := g.Coords(idx)
	return Vec{
		float64(x) * g.CellWidth,
		float64(y) * g.CellWidth,
		float64(z) * g.CellWidth,
	}
}

// CellIdx returns the index of the cell containing the position v. v must
// already be inside the box.
func (g *Grid) CellIdx(v Vec) int {
	x := int(v[0] / g.CellWidth)
	y := int(v[1] / g.CellWidth)
	z := int(v[2] / g.CellWidth)
	return g.PeriodicIdx(x, y, z)
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
