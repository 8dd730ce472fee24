package ir

// Children returns the nodes directly referenced by n: the affected node of
// an instance or the elements of a mapping's `data`. These are the only two
// places a reference can appear in the scene graph.
func (s *Scene) Children(n Node) []Node {
	switch n.Kind() {
	case KindInstance:
		return []Node{s.Instances[n.Index()].Affected}
	case KindMapping:
		if data, ok := s.Mappings[n.Index()].Data(); ok {
			return s.Sequences[data.Index()].Vals
		}
	}
	return nil
}

// Walk visits n and everything reachable from it in pre-order. Returning
// false from fn stops descent below that node. Shared subtrees are visited
// once per path that reaches them.
func (s *Scene) Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range s.Children(n) {
		s.Walk(child, fn)
	}
}

// Reachable tracks which arena slots are reachable from root.
type Reachable struct {
	Strips    []bool
	Rays      []bool
	Instances []bool
	Mappings  []bool
}

// Reach marks every node reachable from root. A mapping already marked is
// not descended into a second time.
func (s *Scene) Reach(root Node) *Reachable {
	return s.ReachUntil(root, nil)
}

// ReachUntil is Reach, except that nodes for which leaf reports true are
// marked but not descended into. A nil leaf descends everywhere.
func (s *Scene) ReachUntil(root Node, leaf func(Node) bool) *Reachable {
	r := &Reachable{
		Strips:    make([]bool, len(s.Strips)),
		Rays:      make([]bool, len(s.Rays)),
		Instances: make([]bool, len(s.Instances)),
		Mappings:  make([]bool, len(s.Mappings)),
	}
	s.Walk(root, func(n Node) bool {
		var seen []bool
		switch n.Kind() {
		case KindStrip:
			seen = r.Strips
		case KindRay:
			seen = r.Rays
		case KindInstance:
			seen = r.Instances
		case KindMapping:
			seen = r.Mappings
		default:
			return false
		}
		if seen[n.Index()] {
			return false
		}
		seen[n.Index()] = true
		return leaf == nil || !leaf(n)
	})
	return r
}
