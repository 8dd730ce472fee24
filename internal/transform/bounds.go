package transform

import (
	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/pkg/math"
)

// boundsPass memoizes per-slot results so shared subtrees are computed once.
type boundsPass struct {
	scene     *ir.Scene
	totalBox  bool
	mappings  map[int]math.AABB
	instances map[int]math.AABB
}

// ComputeBounds computes world-space bounds for everything reachable from
// the world and marks each mapping that ends up with finite bounds as a box.
// When totalBox is false rays contribute no bounds.
func ComputeBounds(s *ir.Scene, totalBox bool) math.AABB {
	p := &boundsPass{
		scene:     s,
		totalBox:  totalBox,
		mappings:  make(map[int]math.AABB),
		instances: make(map[int]math.AABB),
	}
	return p.bounds(s.World)
}

func (p *boundsPass) bounds(n ir.Node) math.AABB {
	s := p.scene
	switch n.Kind() {
	case ir.KindStrip:
		b := math.EmptyAABB()
		for _, v := range s.Strips[n.Index()].Vertices {
			b = b.Extend(v)
		}
		return b

	case ir.KindRay:
		if !p.totalBox {
			return math.EmptyAABB()
		}
		ray := &s.Rays[n.Index()]
		return math.EmptyAABB().Extend(ray.Start()).Extend(ray.End())

	case ir.KindInstance:
		if b, ok := p.instances[n.Index()]; ok {
			return b
		}
		inst := s.Instances[n.Index()]
		b := p.bounds(inst.Affected).Transform(inst.ObjectToWorld())
		p.instances[n.Index()] = b
		return b

	case ir.KindMapping:
		if b, ok := p.mappings[n.Index()]; ok {
			return b
		}
		b := math.EmptyAABB()
		fields := s.Mappings[n.Index()].Fields
		// Malformed explicit bounds are treated as absent.
		for _, key := range []string{ir.FieldMin, ir.FieldMax} {
			if corner, ok := fields[key]; ok {
				if pt, err := s.As3D(corner); err == nil {
					b = b.Extend(pt)
				}
			}
		}
		if data, ok := s.Mappings[n.Index()].Data(); ok {
			for _, child := range s.Sequences[data.Index()].Vals {
				b = b.Union(p.bounds(child))
			}
		}
		if !b.IsEmpty() {
			s.Mappings[n.Index()].SetBox(b)
		}
		p.mappings[n.Index()] = b
		return b
	}
	return math.EmptyAABB()
}
