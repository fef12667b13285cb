// Package geometry provides the fixed-dimension spatial primitives shared
// by the octree and Barnes-Hut packages: vectors, orthants and axis-aligned
// bounding boxes. The dimension is a compile-time constant.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dimensions is the spatial dimension of every Vector, Orthant and
// BoundingBox in this package.
const Dimensions = 3

// Vector is a fixed-length sequence of Dimensions doubles. It is backed by
// gonum's r3.Vec so that addition, subtraction and scaling reuse gonum's
// implementation rather than a hand-rolled one.
type Vector struct {
	r3.Vec
}

// New returns the Vector (x, y, z).
func New(x, y, z float64) Vector {
	return Vector{r3.Vec{X: x, Y: y, Z: z}}
}

// Zero is the additive identity.
var Zero = Vector{}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{r3.Add(v.Vec, w.Vec)}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{r3.Sub(v.Vec, w.Vec)}
}

// Scale returns v scaled by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{r3.Scale(f, v.Vec)}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w.
func (v Vector) Cross(w Vector) Vector {
	return New(
		v.Y*w.Z-v.Z*w.Y,
		v.Z*w.X-v.X*w.Z,
		v.X*w.Y-v.Y*w.X,
	)
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether every axis of v is exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// At returns the value of v on the given axis. It panics if axis is not in
// [0, Dimensions).
func (v Vector) At(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic("geometry: axis out of range")
	}
}

// With returns a copy of v with the given axis set to value.
func (v Vector) With(axis int, value float64) Vector {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	default:
		panic("geometry: axis out of range")
	}
	return v
}

// AnyLessThan reports whether any axis of v is strictly less than scalar.
func AnyLessThan(v Vector, scalar float64) bool {
	for axis := 0; axis < Dimensions; axis++ {
		if v.At(axis) < scalar {
			return true
		}
	}
	return false
}

// AnyLessThanOrEqualTo reports whether any axis of v is less than or equal
// to scalar.
func AnyLessThanOrEqualTo(v Vector, scalar float64) bool {
	for axis := 0; axis < Dimensions; axis++ {
		if v.At(axis) <= scalar {
			return true
		}
	}
	return false
}
