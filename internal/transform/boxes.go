package transform

import "github.com/Faultbox/scene-builder/internal/ir"

// isBoxCandidate reports whether n can become a plain box: a mapping that
// does not carry the explicit `min` marking a procedural primitive.
func isBoxCandidate(s *ir.Scene, n ir.Node) bool {
	if !n.Is(ir.KindMapping) {
		return false
	}
	_, procedural := s.Mappings[n.Index()].Fields[ir.FieldMin]
	return !procedural
}

// rayBacked reports whether n is a ray or an instance chain ending in one.
func rayBacked(s *ir.Scene, n ir.Node) bool {
	for n.Is(ir.KindInstance) {
		n = s.Instances[n.Index()].Affected
	}
	return n.Is(ir.KindRay)
}

// WrapInstances points every instance at a box, wrapping any other target
// in a new single-child mapping. Instances of rays are left alone so they
// stay unencodable. It returns the number of wrapped instances.
func WrapInstances(s *ir.Scene) int {
	wrapped := 0
	for i := range s.Instances {
		affected := s.Instances[i].Affected
		if isBoxCandidate(s, affected) || rayBacked(s, affected) {
			continue
		}
		box := s.AddBox(affected)
		s.Instances[i].Affected = box
		wrapped++
	}
	return wrapped
}

// LimitFanOut restructures every reachable `data` list longer than size into
// a tree of new boxes holding at most size children each. Children keep
// their relative order. It returns the number of boxes created. Sizes below
// two cannot shrink a list and are ignored.
func LimitFanOut(s *ir.Scene, size int) int {
	if size < 2 {
		return 0
	}
	created := 0
	for _, idx := range reachableMappings(s) {
		data, ok := s.Mappings[idx].Data()
		if !ok {
			continue
		}
		vals := s.Sequences[data.Index()].Vals
		for len(vals) > size {
			next := make([]ir.Node, 0, (len(vals)+size-1)/size)
			for i := 0; i < len(vals); i += size {
				end := min(i+size, len(vals))
				if end-i == 1 {
					next = append(next, vals[i])
					continue
				}
				chunk := append([]ir.Node(nil), vals[i:end]...)
				next = append(next, s.AddBox(chunk...))
				created++
			}
			vals = next
		}
		s.Sequences[data.Index()].Vals = vals
	}
	return created
}

// DoubleBoxes makes every reachable `data` list homogeneous: a list with
// more than one child gets each non-box child wrapped in its own box. It
// returns the number of boxes created.
func DoubleBoxes(s *ir.Scene) int {
	created := 0
	for _, idx := range reachableMappings(s) {
		data, ok := s.Mappings[idx].Data()
		if !ok {
			continue
		}
		vals := s.Sequences[data.Index()].Vals
		if len(vals) < 2 {
			continue
		}
		out := make([]ir.Node, len(vals))
		for i, v := range vals {
			if isBoxCandidate(s, v) {
				out[i] = v
				continue
			}
			out[i] = s.AddBox(v)
			created++
		}
		s.Sequences[data.Index()].Vals = out
	}
	return created
}
