package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if m.At(0, 3) != 5 || m.At(2, 3) != 15 {
		t.Errorf("At(row, 3) should read the translation column")
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(Splat(2))
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotations90(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"x", RotateX(math.Pi / 2), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"y", RotateY(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"z", RotateZ(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.in)
			if !near(got, tt.want) {
				t.Errorf("rotate %s: got %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	m := Translate(Vec3{1, -2, 3}).
		Mul(RotateZ(0.3)).
		Mul(RotateY(-1.1)).
		Mul(RotateX(0.7)).
		Mul(Scale(Vec3{2, 3, 0.5}))
	product := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(product[i]-id[i]) > 1e-9 {
			t.Fatalf("M * M^-1 element %d: got %f, want %f", i, product[i], id[i])
		}
	}
}

func TestInverseScaleExact(t *testing.T) {
	inv := Scale(Splat(2)).Inverse()
	rows := inv.Affine()
	want := [3][4]float64{
		{0.5, 0, 0, 0},
		{0, 0.5, 0, 0},
		{0, 0, 0.5, 0},
	}
	if rows != want {
		t.Errorf("Affine(Inverse(Scale(2))) = %v, want %v", rows, want)
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(Vec3{1, 0, 1}).Inverse(); got != Identity() {
		t.Errorf("singular inverse should fall back to identity, got %v", got)
	}
}

func near(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9
}
