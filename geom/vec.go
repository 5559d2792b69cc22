package geom

import (
	"math"
)

// Vec is a position or velocity in a simulation box. Positions are in Mpc/h
// and velocities are in km/s.
type Vec [3]float64

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns k * v.
func (v Vec) Scale(k float64) Vec {
	return Vec{k * v[0], k * v[1], k * v[2]}
}

// Dist2 returns the squared Euclidean distance between v and u. No periodic
// wrapping is done.
func (v Vec) Dist2(u Vec) float64 {
	dx, dy, dz := v[0]-u[0], v[1]-u[1], v[2]-u[2]
	return dx*dx + dy*dy + dz*dz
}

// Wrap returns x moved into the half-open range [0, width).
func Wrap(x, width float64) float64 {
	x = math.Mod(x, width)
	if x < 0 {
		x += width
	}
	// Adding width to a tiny negative number can round up to width itself.
	if x >= width {
		x = 0
	}
	return x
}

// WrapVec wraps every component of v into [0, width).
func WrapVec(v Vec, width float64) Vec {
	return Vec{Wrap(v[0], width), Wrap(v[1], width), Wrap(v[2], width)}
}
