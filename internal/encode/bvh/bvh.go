// Package bvh encodes a transformed scene as a bounding-volume hierarchy
// document of typed cross-references.
package bvh

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
	"github.com/Faultbox/scene-builder/pkg/math"
)

// ErrMissingReference is returned when a mandatory reference points at a
// node with no encoding.
var ErrMissingReference = fmt.Errorf("%w: missing node reference", ir.ErrStructural)

// BoxNode is an interior node of the hierarchy.
type BoxNode struct {
	Min      math.Vec3
	Max      math.Vec3
	Children []Ref
}

// InstanceNode places a child subtree through an inverse transform.
type InstanceNode struct {
	WorldToObject   [3][4]float64
	Child           Ref
	ID              int
	CustomIndex     int
	Mask            int
	SBTRecordOffset int
}

// TriangleNode is a single triangle leaf.
type TriangleNode struct {
	GeometryIndex  int
	PrimitiveIndex int
	Opaque         bool
	Vertices       []math.Vec3
}

// ProceduralNode is a leaf with author-specified bounds.
type ProceduralNode struct {
	Min            math.Vec3
	Max            math.Vec3
	Opaque         bool
	GeometryIndex  int
	PrimitiveIndex int
}

// Document is the encoded hierarchy. A nil TLAS means the world had no
// encodable root and the document is empty.
type Document struct {
	TLAS        *Ref
	Boxes       []BoxNode
	Instances   []InstanceNode
	Triangles   []TriangleNode
	Procedurals []ProceduralNode
}

// Encode builds the document for s and renders it to lines.
func Encode(s *ir.Scene) ([]string, error) {
	doc, err := Build(s)
	if err != nil {
		return nil, err
	}
	return doc.Lines(), nil
}

// Build classifies and renumbers s into a Document. The scene must have
// been through the transform pipeline.
func Build(s *ir.Scene) (*Document, error) {
	e := newEncoder(s)

	tlas, ok := e.ref(s.World)
	if !ok {
		logger.Warn("world has no encodable root, emitting empty document",
			zap.Stringer("world", s.World))
		return &Document{}, nil
	}

	doc := &Document{TLAS: &tlas}
	for _, idx := range e.boxes {
		doc.Boxes = append(doc.Boxes, e.box(idx))
	}
	for i := range s.Instances {
		if isDead(e.deadInstances, i) {
			continue
		}
		node, err := e.instance(i)
		if err != nil {
			return nil, err
		}
		doc.Instances = append(doc.Instances, node)
	}
	for i := range s.Strips {
		if isDead(e.deadStrips, i) {
			continue
		}
		doc.Triangles = append(doc.Triangles, e.triangle(i))
	}
	for _, idx := range e.procs {
		doc.Procedurals = append(doc.Procedurals, e.procedural(idx))
	}

	logger.Debug("encoded bvh",
		zap.Int("boxes", len(doc.Boxes)),
		zap.Int("instances", len(doc.Instances)),
		zap.Int("triangles", len(doc.Triangles)),
		zap.Int("procedurals", len(doc.Procedurals)),
		zap.Int("dead_instances", len(e.deadInstances)),
		zap.Int("dead_strips", len(e.deadStrips)))
	return doc, nil
}

// box lists the encodable children of a box. Rays and dead nodes are
// dropped silently.
func (e *encoder) box(idx int) BoxNode {
	m := &e.scene.Mappings[idx]
	node := BoxNode{Min: m.Bounds.Min, Max: m.Bounds.Max, Children: []Ref{}}
	for _, child := range e.scene.Children(ir.Ref(ir.KindMapping, idx)) {
		if ref, ok := e.ref(child); ok {
			node.Children = append(node.Children, ref)
		}
	}
	return node
}

func (e *encoder) instance(idx int) (InstanceNode, error) {
	inst := &e.scene.Instances[idx]
	child, ok := e.ref(inst.Affected)
	if !ok {
		return InstanceNode{}, fmt.Errorf("%w: instance %d points at %s", ErrMissingReference, idx, inst.Affected)
	}
	f := fieldReader{owner: ir.Ref(ir.KindInstance, idx), fields: inst.Fields}
	if inst.Singular() {
		logger.Warn("instance scale has a zero component, using identity world_to_object",
			zap.Int("instance", idx), zap.Float64s("scale", []float64{inst.Scale.X, inst.Scale.Y, inst.Scale.Z}))
	}
	return InstanceNode{
		WorldToObject:   inst.WorldToObject().Affine(),
		Child:           child,
		ID:              f.int(ir.FieldID, idx),
		CustomIndex:     f.int(ir.FieldCustomIndex, 0),
		Mask:            f.int(ir.FieldMask, 255),
		SBTRecordOffset: f.int(ir.FieldSBTOffset, 0),
	}, nil
}

func (e *encoder) triangle(idx int) TriangleNode {
	strip := &e.scene.Strips[idx]
	f := fieldReader{owner: ir.Ref(ir.KindStrip, idx), fields: strip.Fields}
	return TriangleNode{
		GeometryIndex:  f.int(ir.FieldGeometryIndex, 0),
		PrimitiveIndex: f.int(ir.FieldPrimitiveIndex, idx),
		Opaque:         f.bool(ir.FieldOpaque, true),
		Vertices:       strip.Vertices,
	}
}

func (e *encoder) procedural(idx int) ProceduralNode {
	m := &e.scene.Mappings[idx]
	f := fieldReader{owner: ir.Ref(ir.KindMapping, idx), fields: m.Fields}
	return ProceduralNode{
		Min:            m.Bounds.Min,
		Max:            m.Bounds.Max,
		Opaque:         f.bool(ir.FieldOpaque, false),
		GeometryIndex:  f.int(ir.FieldGeometryIndex, 0),
		PrimitiveIndex: f.int(ir.FieldPrimitiveIndex, idx),
	}
}

// fieldReader reads decorative fields. A field of the wrong shape is logged
// and replaced by its default.
type fieldReader struct {
	owner  ir.Node
	fields ir.Fields
}

func (f fieldReader) int(key string, def int) int {
	n, ok := f.fields[key]
	if !ok {
		return def
	}
	v, ok := n.AsNumber()
	if !ok {
		logger.Warn("field is not a number, using default",
			zap.Stringer("node", f.owner), zap.String("field", key), zap.Int("default", def))
		return def
	}
	if v < 0 || v != gomath.Trunc(v) {
		logger.Warn("field is not a non-negative integer, using default",
			zap.Stringer("node", f.owner), zap.String("field", key),
			zap.Float64("value", v), zap.Int("default", def))
		return def
	}
	return int(v)
}

func (f fieldReader) bool(key string, def bool) bool {
	n, ok := f.fields[key]
	if !ok {
		return def
	}
	v, ok := n.AsBool()
	if !ok {
		logger.Warn("field is not a boolean, using default",
			zap.Stringer("node", f.owner), zap.String("field", key), zap.Bool("default", def))
		return def
	}
	return v
}
