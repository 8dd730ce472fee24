package transform

import (
	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/pkg/math"
)

// SplitStrips decomposes every reachable strip with more than three
// vertices into triangles and returns how many strips were split. Each
// reference to a split strip is redirected to a new mapping whose `data`
// lists the triangles.
func SplitStrips(s *ir.Scene) int {
	var split []int
	seen := make(map[ir.Node]bool)
	s.Walk(s.World, func(n ir.Node) bool {
		if seen[n] {
			return false
		}
		seen[n] = true
		if n.Is(ir.KindStrip) && len(s.Strips[n.Index()].Vertices) > 3 {
			split = append(split, n.Index())
		}
		return true
	})

	for _, idx := range split {
		before := ir.Ref(ir.KindStrip, idx)
		after := s.AddBox()
		Replace(s, before, after)

		var tris []ir.Node
		for _, tri := range Triangulate(s.Strips[idx]) {
			tris = append(tris, s.AddStrip(tri))
		}
		data, _ := s.Mappings[after.Index()].Data()
		s.Sequences[data.Index()].Vals = tris
	}
	return len(split)
}

// Triangulate fans a strip into len-2 triangles with alternating winding.
// Every triangle gets a copy of the strip's auxiliary fields.
func Triangulate(strip ir.Strip) []ir.Strip {
	v := strip.Vertices
	tris := make([]ir.Strip, 0, len(v)-2)
	for i := 2; i < len(v); i++ {
		var verts []math.Vec3
		if i%2 == 0 {
			verts = []math.Vec3{v[i-2], v[i-1], v[i]}
		} else {
			verts = []math.Vec3{v[i-1], v[i-2], v[i]}
		}
		tris = append(tris, ir.Strip{Vertices: verts, Fields: strip.Fields.Clone()})
	}
	return tris
}

// Replace substitutes after for every reference to before reachable from
// the world, including the world itself.
func Replace(s *ir.Scene, before, after ir.Node) {
	if s.World == before {
		s.World = after
		return
	}
	visited := make(map[ir.Node]bool)
	replace(s, before, after, s.World, visited)
}

func replace(s *ir.Scene, before, after, curr ir.Node, visited map[ir.Node]bool) {
	if visited[curr] {
		return
	}
	visited[curr] = true

	switch curr.Kind() {
	case ir.KindInstance:
		inst := &s.Instances[curr.Index()]
		if inst.Affected == before {
			inst.Affected = after
			return
		}
		replace(s, before, after, inst.Affected, visited)
	case ir.KindMapping:
		data, ok := s.Mappings[curr.Index()].Data()
		if !ok {
			return
		}
		var recurse []ir.Node
		vals := s.Sequences[data.Index()].Vals
		for i, v := range vals {
			if v == before {
				vals[i] = after
			} else {
				recurse = append(recurse, v)
			}
		}
		for _, v := range recurse {
			replace(s, before, after, v, visited)
		}
	}
}
