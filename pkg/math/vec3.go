// Package math provides the vector, matrix and bounding box types used by the
// scene compiler.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Splat returns a vector with all components set to v.
func Splat(v float64) Vec3 {
	return Vec3{v, v, v}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Get returns component i (0 = X, 1 = Y, 2 = Z).
func (v Vec3) Get(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Set returns a copy of v with component i replaced.
func (v Vec3) Set(i int, val float64) Vec3 {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// HasNaN reports whether any component is NaN.
func (v Vec3) HasNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Radians converts a vector of angles in degrees to radians.
func (v Vec3) Radians() Vec3 {
	return v.Scale(math.Pi / 180)
}
