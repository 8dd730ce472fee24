package ir

import (
	"errors"
	"math"
	"testing"

	gmath "github.com/Faultbox/scene-builder/pkg/math"
)

func TestAs3D(t *testing.T) {
	s := NewScene()
	good := s.AddSequence(Number(1), Number(2), Number(3))
	short := s.AddSequence(Number(1), Number(2))
	mixed := s.AddSequence(Number(1), Bool(true), Number(3))

	p, err := s.As3D(good)
	if err != nil || p != (gmath.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("As3D(good) = %v, %v", p, err)
	}
	for _, n := range []Node{short, mixed, Number(1), Bool(false)} {
		if _, err := s.As3D(n); !errors.Is(err, ErrType) {
			t.Errorf("As3D(%v) should be a type error, got %v", n, err)
		}
	}
}

func TestNodeEquality(t *testing.T) {
	if Ref(KindStrip, 1) != Ref(KindStrip, 1) {
		t.Error("identical references should compare equal")
	}
	if Ref(KindStrip, 1) == Ref(KindMapping, 1) {
		t.Error("references of different kinds should differ")
	}
	if Number(1) == Bool(true) {
		t.Error("literals of different kinds should differ")
	}
	if got := Ref(KindInstance, 4).String(); got != "Instance4" {
		t.Errorf("String() = %q", got)
	}
}

func TestInstanceTransforms(t *testing.T) {
	inst := Instance{
		Scale:     gmath.Vec3{X: 2, Y: 1, Z: 1},
		Rotate:    gmath.Vec3{Z: 90},
		Translate: gmath.Vec3{X: 10},
	}
	// Scale first, then rotate, then translate.
	got := inst.ObjectToWorld().TransformPoint(gmath.Vec3{X: 1})
	want := gmath.Vec3{X: 10, Y: 2}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z) > 1e-9 {
		t.Errorf("ObjectToWorld * (1,0,0) = %v, want %v", got, want)
	}

	back := inst.WorldToObject().TransformPoint(got)
	if math.Abs(back.X-1) > 1e-9 || math.Abs(back.Y) > 1e-9 || math.Abs(back.Z) > 1e-9 {
		t.Errorf("WorldToObject should undo ObjectToWorld, got %v", back)
	}
}

func TestReach(t *testing.T) {
	s := NewScene()
	tri := s.AddStrip(Strip{Vertices: make([]gmath.Vec3, 3)})
	orphan := s.AddStrip(Strip{Vertices: make([]gmath.Vec3, 3)})
	ray := s.AddRay(Ray{})
	inst := s.AddInstance(Instance{Affected: tri})
	s.World = s.AddBox(inst, ray, tri)

	r := s.Reach(s.World)
	if !r.Strips[tri.Index()] || r.Strips[orphan.Index()] {
		t.Errorf("strip reachability = %v", r.Strips)
	}
	if !r.Rays[ray.Index()] || !r.Instances[inst.Index()] || !r.Mappings[s.World.Index()] {
		t.Error("expected ray, instance and root to be reachable")
	}
}

func TestReachUntilStopsAtLeaf(t *testing.T) {
	s := NewScene()
	tri := s.AddStrip(Strip{Vertices: make([]gmath.Vec3, 3)})
	inner := s.AddBox(tri)
	s.World = s.AddBox(inner)

	r := s.ReachUntil(s.World, func(n Node) bool { return n == inner })
	if !r.Mappings[inner.Index()] {
		t.Error("leaf mapping should be marked")
	}
	if r.Strips[tri.Index()] {
		t.Error("strip below a leaf should not be reachable")
	}
}

func TestInstanceSingular(t *testing.T) {
	inst := Instance{Scale: gmath.Vec3{X: 0, Y: 1, Z: 1}}
	if !inst.Singular() {
		t.Error("zero x scale should be singular")
	}
	inst.Scale = gmath.Splat(2)
	if inst.Singular() {
		t.Error("uniform scale should not be singular")
	}
}
