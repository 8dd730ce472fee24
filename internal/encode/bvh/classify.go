package bvh

import (
	"github.com/Faultbox/scene-builder/internal/ir"
)

// Major classes of a node reference.
const (
	MajorBox        = 0
	MajorInstance   = 1
	MajorTriangle   = 2
	MajorProcedural = 3
)

// Ref is a typed cross-reference: a class and a dense index within it.
type Ref struct {
	Major int
	Minor int
}

type mapClass uint8

const (
	mapUnused mapClass = iota
	mapBox
	mapProcedural
)

type mapType struct {
	class mapClass
	index int
}

// encoder holds the numbering state derived from one scene.
type encoder struct {
	scene    *ir.Scene
	reach    *ir.Reachable
	mappings []mapType
	boxes    []int // Mapping indices, in box order
	procs    []int // Mapping indices, in procedural order

	deadInstances []int // Sorted ascending
	deadStrips    []int // Sorted ascending
}

func newEncoder(s *ir.Scene) *encoder {
	e := &encoder{
		scene:    s,
		reach:    s.ReachUntil(s.World, isProcedural(s)),
		mappings: make([]mapType, len(s.Mappings)),
	}
	e.classifyMappings()
	e.findDeadInstances()
	e.findDeadStrips()
	return e
}

// isProcedural reports whether a node is a procedural primitive. Its data
// has no encoding of its own, so nothing below it is reachable.
func isProcedural(s *ir.Scene) func(ir.Node) bool {
	return func(n ir.Node) bool {
		if !n.Is(ir.KindMapping) {
			return false
		}
		m := &s.Mappings[n.Index()]
		_, ok := m.Fields[ir.FieldMin]
		return m.IsBox && ok
	}
}

// classifyMappings numbers reachable boxes and procedurals in arena order.
// A box carrying an explicit `min` is a procedural primitive.
func (e *encoder) classifyMappings() {
	for i := range e.scene.Mappings {
		m := &e.scene.Mappings[i]
		if !e.reach.Mappings[i] || !m.IsBox {
			continue
		}
		if _, ok := m.Fields[ir.FieldMin]; ok {
			e.mappings[i] = mapType{class: mapProcedural, index: len(e.procs)}
			e.procs = append(e.procs, i)
		} else {
			e.mappings[i] = mapType{class: mapBox, index: len(e.boxes)}
			e.boxes = append(e.boxes, i)
		}
	}
}

// findDeadInstances collects instances that cannot be encoded: unreachable
// ones and those whose target is a ray or another dead instance.
func (e *encoder) findDeadInstances() {
	s := e.scene
	state := make([]int8, len(s.Instances)) // 0 unknown, 1 live, 2 dead
	var dead func(i int) bool
	dead = func(i int) bool {
		switch state[i] {
		case 1:
			return false
		case 2:
			return true
		}
		affected := s.Instances[i].Affected
		d := !e.reach.Instances[i] ||
			affected.Is(ir.KindRay) ||
			(affected.Is(ir.KindInstance) && dead(affected.Index()))
		state[i] = 1
		if d {
			state[i] = 2
		}
		return d
	}
	for i := range s.Instances {
		if dead(i) {
			e.deadInstances = append(e.deadInstances, i)
		}
	}
}

// findDeadStrips collects strips that are unreachable or not triangles.
func (e *encoder) findDeadStrips() {
	for i, strip := range e.scene.Strips {
		if !e.reach.Strips[i] || len(strip.Vertices) != 3 {
			e.deadStrips = append(e.deadStrips, i)
		}
	}
}

// deadDelta returns how many entries of the sorted dead list precede idx.
// It reports false when idx itself is dead.
func deadDelta(dead []int, idx int) (int, bool) {
	delta := 0
	for _, d := range dead {
		if d == idx {
			return 0, false
		}
		if d > idx {
			break
		}
		delta++
	}
	return delta, true
}

func isDead(dead []int, idx int) bool {
	_, ok := deadDelta(dead, idx)
	return !ok
}

// ref converts n to its encoded reference. Rays, literals, sequences, dead
// nodes and unused mappings have none.
func (e *encoder) ref(n ir.Node) (Ref, bool) {
	switch n.Kind() {
	case ir.KindStrip:
		delta, ok := deadDelta(e.deadStrips, n.Index())
		return Ref{MajorTriangle, n.Index() - delta}, ok
	case ir.KindInstance:
		delta, ok := deadDelta(e.deadInstances, n.Index())
		return Ref{MajorInstance, n.Index() - delta}, ok
	case ir.KindMapping:
		switch m := e.mappings[n.Index()]; m.class {
		case mapBox:
			return Ref{MajorBox, m.index}, true
		case mapProcedural:
			return Ref{MajorProcedural, m.index}, true
		}
	}
	return Ref{}, false
}
