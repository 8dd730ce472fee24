package ir

import (
	"fmt"

	"github.com/Faultbox/scene-builder/pkg/math"
)

// Reserved field names.
const (
	FieldData           = "data"
	FieldInstance       = "instance"
	FieldScale          = "scale"
	FieldRotate         = "rotate"
	FieldTranslate      = "translate"
	FieldOrigin         = "origin"
	FieldDirection      = "direction"
	FieldExtent         = "extent"
	FieldMax            = "max"
	FieldMin            = "min"
	FieldStrip          = "strip"
	FieldColor          = "color"
	FieldOpaque         = "opaque"
	FieldGeometryIndex  = "geometry_index"
	FieldPrimitiveIndex = "primitive_index"
	FieldID             = "id"
	FieldCustomIndex    = "custom_index"
	FieldMask           = "mask"
	FieldSBTOffset      = "sbt_record_offset"
)

// Fields maps a key to a node.
type Fields map[string]Node

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Sequence is an ordered, heterogeneous list of nodes.
type Sequence struct {
	Vals []Node
}

// Strip is a triangle strip of at least three vertices.
type Strip struct {
	Vertices []math.Vec3
	Fields   Fields
}

// Ray is the segment Origin + Direction*t for t in [Min, Extent].
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
	Extent    float64
	Min       float64
	Fields    Fields
}

// Start returns the segment's first endpoint.
func (r *Ray) Start() math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(r.Min))
}

// End returns the segment's last endpoint.
func (r *Ray) End() math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(r.Extent))
}

// Instance places Affected into its parent through an affine transform.
// Rotate holds degrees.
type Instance struct {
	Affected  Node
	Scale     math.Vec3
	Rotate    math.Vec3
	Translate math.Vec3
	Fields    Fields
}

// ObjectToWorld returns translate * rotZ * rotY * rotX * scale.
func (i *Instance) ObjectToWorld() math.Mat4 {
	r := i.Rotate.Radians()
	return math.Translate(i.Translate).
		Mul(math.RotateZ(r.Z)).
		Mul(math.RotateY(r.Y)).
		Mul(math.RotateX(r.X)).
		Mul(math.Scale(i.Scale))
}

// Singular reports whether the transform has no inverse. Only a zero scale
// component can cause that.
func (i *Instance) Singular() bool {
	return i.Scale.X == 0 || i.Scale.Y == 0 || i.Scale.Z == 0
}

// WorldToObject returns the inverse of ObjectToWorld.
func (i *Instance) WorldToObject() math.Mat4 {
	return i.ObjectToWorld().Inverse()
}

// Mapping is a generic key/value object. Bounds is only valid once IsBox is
// set by the bounding-box pass.
type Mapping struct {
	Fields Fields
	IsBox  bool
	Bounds math.AABB
}

// SetBox marks the mapping as a box with the given bounds.
func (m *Mapping) SetBox(b math.AABB) {
	m.IsBox = true
	m.Bounds = b
}

// Data returns the `data` sequence node, if the mapping has one.
func (m *Mapping) Data() (Node, bool) {
	n, ok := m.Fields[FieldData]
	if !ok || !n.Is(KindSequence) {
		return Node{}, false
	}
	return n, true
}

// Scene owns every arena. Arenas only grow; indices stay valid for the
// lifetime of the scene.
type Scene struct {
	World     Node
	Sequences []Sequence
	Strips    []Strip
	Rays      []Ray
	Instances []Instance
	Mappings  []Mapping
}

// NewScene returns an empty scene whose world is the literal false.
func NewScene() *Scene {
	return &Scene{World: Bool(false)}
}

// AddSequence appends a sequence and returns its reference.
func (s *Scene) AddSequence(vals ...Node) Node {
	s.Sequences = append(s.Sequences, Sequence{Vals: vals})
	return Ref(KindSequence, len(s.Sequences)-1)
}

// AddStrip appends a strip and returns its reference.
func (s *Scene) AddStrip(strip Strip) Node {
	s.Strips = append(s.Strips, strip)
	return Ref(KindStrip, len(s.Strips)-1)
}

// AddRay appends a ray and returns its reference.
func (s *Scene) AddRay(ray Ray) Node {
	s.Rays = append(s.Rays, ray)
	return Ref(KindRay, len(s.Rays)-1)
}

// AddInstance appends an instance and returns its reference.
func (s *Scene) AddInstance(inst Instance) Node {
	s.Instances = append(s.Instances, inst)
	return Ref(KindInstance, len(s.Instances)-1)
}

// AddMapping appends a mapping and returns its reference.
func (s *Scene) AddMapping(fields Fields) Node {
	if fields == nil {
		fields = Fields{}
	}
	s.Mappings = append(s.Mappings, Mapping{Fields: fields})
	return Ref(KindMapping, len(s.Mappings)-1)
}

// AddBox appends a mapping whose `data` holds children, in order.
func (s *Scene) AddBox(children ...Node) Node {
	seq := s.AddSequence(children...)
	return s.AddMapping(Fields{FieldData: seq})
}

// discardMapping drops the mapping at idx if it is still the last entry of
// the arena. Otherwise the slot is left in place, unreferenced.
func (s *Scene) discardMapping(idx int) {
	if idx == len(s.Mappings)-1 {
		s.Mappings = s.Mappings[:idx]
	}
}

// As3D resolves n to a point. Only a sequence of exactly three numbers
// qualifies.
func (s *Scene) As3D(n Node) (math.Vec3, error) {
	if !n.Is(KindSequence) {
		return math.Vec3{}, fmt.Errorf("%w: could not resolve 3D point from %s", ErrType, n)
	}
	vals := s.Sequences[n.Index()].Vals
	if len(vals) != 3 {
		return math.Vec3{}, fmt.Errorf("%w: could not resolve 3D point from a sequence with %d dimensions", ErrType, len(vals))
	}
	var p math.Vec3
	for i, v := range vals {
		num, ok := v.AsNumber()
		if !ok {
			return math.Vec3{}, fmt.Errorf("%w: could not resolve numeric component of 3D point from %s", ErrType, v)
		}
		p = p.Set(i, num)
	}
	return p, nil
}
