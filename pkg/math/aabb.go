package math

import "math"

// AABB is an axis-aligned bounding box. A box whose corners hold NaN is
// empty: it has no bounds yet and contributes nothing when folded into
// another box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns a box with no bounds.
func EmptyAABB() AABB {
	return AABB{Min: Splat(math.NaN()), Max: Splat(math.NaN())}
}

// IsEmpty reports whether the box has no bounds.
func (b AABB) IsEmpty() bool {
	return b.Min.HasNaN() || b.Max.HasNaN()
}

// Extend grows the box to include p. NaN components in either operand are
// ignored.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: Vec3{minNum(b.Min.X, p.X), minNum(b.Min.Y, p.Y), minNum(b.Min.Z, p.Z)},
		Max: Vec3{maxNum(b.Max.X, p.X), maxNum(b.Max.Y, p.Y), maxNum(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{minNum(b.Min.X, other.Min.X), minNum(b.Min.Y, other.Min.Y), minNum(b.Min.Z, other.Min.Z)},
		Max: Vec3{maxNum(b.Max.X, other.Max.X), maxNum(b.Max.Y, other.Max.Y), maxNum(b.Max.Z, other.Max.Z)},
	}
}

// Corners returns the 8 corners of the box. Bit j of the corner index
// selects Max (1) or Min (0) on axis j.
func (b AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		var p Vec3
		for j := 0; j < 3; j++ {
			if (i>>j)&1 == 1 {
				p = p.Set(j, b.Max.Get(j))
			} else {
				p = p.Set(j, b.Min.Get(j))
			}
		}
		corners[i] = p
	}
	return corners
}

// Transform returns the axis-aligned box around the 8 transformed corners of
// b. An empty box stays empty.
func (b AABB) Transform(m Mat4) AABB {
	if b.IsEmpty() {
		return EmptyAABB()
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.Extend(m.TransformPoint(c))
	}
	return out
}

// minNum returns the smaller of a and b, preferring the number when one of
// them is NaN.
func minNum(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}

func maxNum(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}
