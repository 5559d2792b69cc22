package geom

import (
	"testing"
)

func TestGridCoords(t *testing.T) {
	g := NewGrid(7, 70)
	for idx := 0; idx < g.Volume; idx++ {
		x, y, z := g.Coords(idx)
		if x < 0 || y < 0 || z < 0 ||
			x >= g.Length || y >= g.Length || z >= g.Length {
			t.Fatalf("Coords(%d) = (%d, %d, %d) is out of bounds", idx, x, y, z)
		}
		if g.Idx(x, y, z) != idx {
			t.Errorf("Idx(Coords(%d)) = %d", idx, g.Idx(x, y, z))
		}
	}
}

func TestGridLayout(t *testing.T) {
	// Matches a C-ordered (N, N, N) array with x as the slowest axis.
	g := NewGrid(4, 1)
	table := []struct {
		x, y, z, idx int
	}{
		{0, 0, 1, 1},
		{0, 1, 0, 4},
		{1, 0, 0, 16},
		{3, 3, 3, 63},
	}
	for i, test := range table {
		if idx := g.Idx(test.x, test.y, test.z); idx != test.idx {
			t.Errorf("%d) Expected Idx = %d, got %d", i, test.idx, idx)
		}
	}

	if idx := g.PeriodicIdx(-1, 4, 5); idx != g.Idx(3, 0, 1) {
		t.Errorf("PeriodicIdx(-1, 4, 5) = %d", idx)
	}
}

func TestCellIdx(t *testing.T) {
	g := NewGrid(10, 100)
	table := []struct {
		v   Vec
		idx int
	}{
		{Vec{0, 0, 0}, 0},
		{Vec{5, 5, 15}, 1},
		{Vec{99.9, 0, 0}, 900},
	}
	for i, test := range table {
		if idx := g.CellIdx(test.v); idx != test.idx {
			t.Errorf("%d) Expected CellIdx = %d, got %d", i, test.idx, idx)
		}
	}
	if o := g.CellOrigin(g.Idx(1, 2, 3)); o != (Vec{10, 20, 30}) {
		t.Errorf("CellOrigin = %v", o)
	}
}

func TestWrap(t *testing.T) {
	table := []struct {
		x, width, out float64
	}{
		{0, 1, 0},
		{1, 1, 0},
		{1.25, 1, 0.25},
		{-0.25, 1, 0.75},
		{-1e-20, 1, 0},
	}
	for i, test := range table {
		if out := Wrap(test.x, test.width); out != test.out {
			t.Errorf("%d) Wrap(%g, %g) = %g, not %g",
				i, test.x, test.width, out, test.out)
		}
	}
}
