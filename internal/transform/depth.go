package transform

import (
	"fmt"

	"github.com/Faultbox/scene-builder/internal/ir"
)

// InstanceLevels returns how many instance levels the world uses: 1 when no
// instance is reachable, 2 when instances are reachable but none nests
// another, and so on.
func InstanceLevels(s *ir.Scene) int {
	memo := make(map[ir.Node]int)
	var depth func(n ir.Node) int
	depth = func(n ir.Node) int {
		if d, ok := memo[n]; ok {
			return d
		}
		d := 0
		for _, child := range s.Children(n) {
			d = max(d, depth(child))
		}
		if n.Is(ir.KindInstance) {
			d++
		}
		memo[n] = d
		return d
	}
	return 1 + depth(s.World)
}

// CheckInstancing fails when the world uses more than limit instance levels.
func CheckInstancing(s *ir.Scene, limit int) error {
	if levels := InstanceLevels(s); levels > limit {
		return fmt.Errorf("%w: scene uses %d instance levels, but at most %d are allowed", ErrInstancingDepth, levels, limit)
	}
	return nil
}
