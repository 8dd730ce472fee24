package bvh

import (
	"strconv"
	"strings"

	"github.com/Faultbox/scene-builder/pkg/math"
)

// The document is rendered as tab-indented pseudo-JSON. Scalars and short
// tuples stay on one line; lists and objects open a block. Commas separate
// elements and never follow the last one.

type inline string

type list []any

type member struct {
	key string
	val any
}

type object []member

// Lines renders the document, one output line per entry.
func (d *Document) Lines() []string {
	if d.TLAS == nil {
		return []string{"{", "}"}
	}
	return render(d.tree())
}

func (d *Document) tree() object {
	boxes := make(list, 0, len(d.Boxes))
	for _, b := range d.Boxes {
		children := make(list, 0, len(b.Children))
		for _, c := range b.Children {
			children = append(children, c.inline())
		}
		boxes = append(boxes, object{
			{"min_bounds", vec(b.Min)},
			{"max_bounds", vec(b.Max)},
			{"child_nodes", children},
		})
	}

	instances := make(list, 0, len(d.Instances))
	for _, in := range d.Instances {
		rows := make(list, 0, len(in.WorldToObject))
		for _, row := range in.WorldToObject {
			rows = append(rows, tuple(row[:]...))
		}
		instances = append(instances, object{
			{"world_to_object", rows},
			{"child_node", in.Child.inline()},
			{"id", integer(in.ID)},
			{"custom_index", integer(in.CustomIndex)},
			{"mask", integer(in.Mask)},
			{"sbt_record_offset", integer(in.SBTRecordOffset)},
		})
	}

	triangles := make(list, 0, len(d.Triangles))
	for _, t := range d.Triangles {
		verts := make(list, 0, len(t.Vertices))
		for _, v := range t.Vertices {
			verts = append(verts, vec(v))
		}
		triangles = append(triangles, object{
			{"geometry_index", integer(t.GeometryIndex)},
			{"primitive_index", integer(t.PrimitiveIndex)},
			{"opaque", boolean(t.Opaque)},
			{"vertices", verts},
		})
	}

	procs := make(list, 0, len(d.Procedurals))
	for _, p := range d.Procedurals {
		procs = append(procs, object{
			{"min_bounds", vec(p.Min)},
			{"max_bounds", vec(p.Max)},
			{"opaque", boolean(p.Opaque)},
			{"geometry_index", integer(p.GeometryIndex)},
			{"primitive_index", integer(p.PrimitiveIndex)},
		})
	}

	return object{
		{"tlas", d.TLAS.inline()},
		{"box_nodes", boxes},
		{"instance_nodes", instances},
		{"triangle_nodes", triangles},
		{"procedural_nodes", procs},
	}
}

func (r Ref) inline() inline {
	return inline("[ " + strconv.Itoa(r.Major) + ", " + strconv.Itoa(r.Minor) + " ]")
}

// render returns v's lines with nested blocks indented relative to v.
func render(v any) []string {
	switch v := v.(type) {
	case inline:
		return []string{string(v)}
	case list:
		out := []string{"["}
		for i, elem := range v {
			out = appendBlock(out, render(elem), i < len(v)-1)
		}
		return append(out, "]")
	case object:
		out := []string{"{"}
		for i, m := range v {
			lines := render(m.val)
			lines[0] = strconv.Quote(m.key) + " : " + lines[0]
			out = appendBlock(out, lines, i < len(v)-1)
		}
		return append(out, "}")
	}
	panic("bvh: unknown render value")
}

func appendBlock(out, lines []string, comma bool) []string {
	if comma {
		lines[len(lines)-1] += ","
	}
	for _, l := range lines {
		out = append(out, "\t"+l)
	}
	return out
}

// formatFloat prints the shortest exact decimal. Negative zero prints as 0.
func formatFloat(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tuple(vals ...float64) inline {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return inline("[ " + strings.Join(parts, ", ") + " ]")
}

func vec(v math.Vec3) inline {
	return tuple(v.X, v.Y, v.Z)
}

func integer(v int) inline {
	return inline(strconv.Itoa(v))
}

func boolean(v bool) inline {
	return inline(strconv.FormatBool(v))
}
