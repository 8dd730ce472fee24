// Package ir holds the intermediate representation of a scene: a set of
// append-only arenas and the tagged Node references that point into them.
package ir

import (
	"fmt"
	"strconv"
)

// Kind identifies what a Node holds.
type Kind uint8

const (
	KindNumber   Kind = iota // Inline float literal
	KindBool                 // Inline boolean literal
	KindSequence             // Index into Scene.Sequences
	KindStrip                // Index into Scene.Strips
	KindRay                  // Index into Scene.Rays
	KindInstance             // Index into Scene.Instances
	KindMapping              // Index into Scene.Mappings
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindSequence:
		return "Sequence"
	case KindStrip:
		return "Strip"
	case KindRay:
		return "Ray"
	case KindInstance:
		return "Instance"
	case KindMapping:
		return "Mapping"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Node is a copyable reference: either an inline literal or an index into
// one of the Scene arenas. Two Nodes are equal when they are the same
// literal or point at the same arena slot.
type Node struct {
	kind  Kind
	index int
	num   float64
	flag  bool
}

// Number returns a numeric literal node.
func Number(v float64) Node {
	return Node{kind: KindNumber, num: v}
}

// Bool returns a boolean literal node.
func Bool(v bool) Node {
	return Node{kind: KindBool, flag: v}
}

// Ref returns a node pointing at slot index of the arena for kind.
func Ref(kind Kind, index int) Node {
	return Node{kind: kind, index: index}
}

// Kind returns what the node holds.
func (n Node) Kind() Kind {
	return n.kind
}

// Index returns the arena index. It is meaningless for literals.
func (n Node) Index() int {
	return n.index
}

// Is reports whether n is an arena reference of the given kind.
func (n Node) Is(kind Kind) bool {
	return n.kind == kind
}

// AsNumber returns the literal value if n is a number.
func (n Node) AsNumber() (float64, bool) {
	return n.num, n.kind == KindNumber
}

// AsBool returns the literal value if n is a boolean.
func (n Node) AsBool() (bool, bool) {
	return n.flag, n.kind == KindBool
}

// IsLiteral reports whether n is a number or boolean.
func (n Node) IsLiteral() bool {
	return n.kind == KindNumber || n.kind == KindBool
}

// IsGeometry reports whether n may appear in a `data` list or as an
// instance target: strips, rays, instances and mappings.
func (n Node) IsGeometry() bool {
	switch n.kind {
	case KindStrip, KindRay, KindInstance, KindMapping:
		return true
	}
	return false
}

func (n Node) String() string {
	switch n.kind {
	case KindNumber:
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(n.flag)
	default:
		return n.kind.String() + strconv.Itoa(n.index)
	}
}
