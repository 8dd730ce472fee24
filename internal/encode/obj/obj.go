// Package obj encodes a scene as Wavefront OBJ text for visual inspection.
package obj

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
	"github.com/Faultbox/scene-builder/pkg/math"
)

// Header is written at the top of every file.
var Header = []string{
	"# Generated by scene-builder",
	"# Recommended OBJ viewer: https://3dviewer.net/",
}

// Relative vertex indices into the 8 corners written by box. Corner i has
// bit 2 of i selecting max x, bit 1 max y and bit 0 max z.
var (
	boxFaces = []string{
		"f -8 -7 -5 -6", // min x
		"f -4 -2 -1 -3", // max x
		"f -8 -4 -3 -7", // min y
		"f -6 -5 -1 -2", // max y
		"f -8 -6 -2 -4", // min z
		"f -7 -3 -1 -5", // max z
	}
	boxEdges = []string{
		"l -8 -7 -5 -6 -8",
		"l -4 -3 -1 -2 -4",
		"l -8 -4",
		"l -7 -3",
		"l -5 -1",
		"l -6 -2",
	}
)

type encoder struct {
	scene   *ir.Scene
	lines   []string
	palette *palette
}

func (e *encoder) emit(line string) {
	e.lines = append(e.lines, line)
}

// Encode renders everything reachable from the world. Literals and bare
// sequences have nothing to draw.
func Encode(s *ir.Scene) []string {
	e := &encoder{scene: s, lines: append([]string(nil), Header...)}
	// No sequence can have this index, so the default never collides.
	e.palette = newPalette(e, len(s.Sequences))
	e.node(s.World, math.Identity())
	logger.Debug("encoded obj", zap.Int("lines", len(e.lines)))
	return e.lines
}

func (e *encoder) node(n ir.Node, m math.Mat4) {
	switch n.Kind() {
	case ir.KindStrip:
		e.strip(n, m)
	case ir.KindRay:
		e.ray(n, m)
	case ir.KindInstance:
		inst := &e.scene.Instances[n.Index()]
		color, ok := inst.Fields[ir.FieldColor]
		e.palette.update(e, n, color, ok)
		e.node(inst.Affected, m.Mul(inst.ObjectToWorld()))
	case ir.KindMapping:
		e.mapping(n, m)
	}
}

func (e *encoder) strip(n ir.Node, m math.Mat4) {
	strip := &e.scene.Strips[n.Index()]
	color, ok := strip.Fields[ir.FieldColor]
	e.palette.update(e, n, color, ok)

	e.emit("")
	e.emit("o strip" + itoa(n.Index()))
	for i, v := range strip.Vertices {
		e.emit("v " + point(m.TransformPoint(v)))
		switch {
		case i < 2:
		case i%2 == 0:
			e.emit("f -3 -2 -1")
		default:
			e.emit("f -2 -3 -1")
		}
	}
}

func (e *encoder) ray(n ir.Node, m math.Mat4) {
	ray := &e.scene.Rays[n.Index()]
	color, ok := ray.Fields[ir.FieldColor]
	e.palette.update(e, n, color, ok)

	e.emit("")
	e.emit("o ray" + itoa(n.Index()))
	e.emit("v " + point(m.TransformPoint(ray.Start())))
	e.emit("v " + point(m.TransformPoint(ray.End())))
	e.emit("l -2 -1")
}

func (e *encoder) mapping(n ir.Node, m math.Mat4) {
	mp := &e.scene.Mappings[n.Index()]
	color, ok := mp.Fields[ir.FieldColor]
	current := e.palette.update(e, n, color, ok)

	if mp.IsBox {
		e.box(n.Index(), mp, m)
	}
	for _, child := range e.scene.Children(n) {
		e.node(child, m)
		e.palette.restore(e, current)
	}
}

func (e *encoder) box(idx int, mp *ir.Mapping, m math.Mat4) {
	e.emit("")
	e.emit("o box" + itoa(idx))
	lo, hi := mp.Bounds.Min, mp.Bounds.Max
	for i := 0; i < 8; i++ {
		c := lo
		if i&4 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&1 != 0 {
			c.Z = hi.Z
		}
		e.emit("v " + point(m.TransformPoint(c)))
	}

	fill := false
	if v, ok := mp.Fields[ir.FieldOpaque]; ok {
		if b, isBool := v.AsBool(); isBool {
			fill = b
		} else {
			logger.Warn("opaque is not a boolean, drawing wireframe",
				zap.Stringer("node", ir.Ref(ir.KindMapping, idx)))
		}
	}
	if fill {
		e.lines = append(e.lines, boxFaces...)
	} else {
		e.lines = append(e.lines, boxEdges...)
	}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

// point formats a vertex as "x y z". Negative zero prints as 0.
func point(v math.Vec3) string {
	return number(v.X) + " " + number(v.Y) + " " + number(v.Z)
}

func number(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
