// Package transform rewrites a scene in place before it is encoded.
package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
)

// Transform errors.
var (
	ErrLiteralRoot     = fmt.Errorf("%w: cannot box a literal root", ir.ErrStructural)
	ErrInstancingDepth = fmt.Errorf("%w: instancing depth exceeded", ir.ErrStructural)
)

// Options selects which passes run.
type Options struct {
	Root       bool // Box the world root if it is not a mapping
	Split      bool // Decompose strips into triangles
	Wrap       bool // Make every instance point at a box
	BoxSize    int  // Max children per box, 0 for unbounded
	Double     bool // Boxes hold one child of any kind or only boxes
	TotalBox   bool // Rays contribute to the bounds of their box
	Instancing int  // Max instance levels, 0 for unbounded
}

// Run applies the enabled passes in their fixed order. Bounding-box
// propagation always runs last.
func Run(s *ir.Scene, opts Options) error {
	if opts.Root {
		if err := BoxRoot(s); err != nil {
			return err
		}
	}
	if opts.Split {
		n := SplitStrips(s)
		logger.Debug("split strips", zap.Int("count", n))
	}
	if opts.Wrap {
		n := WrapInstances(s)
		logger.Debug("wrapped instances", zap.Int("count", n))
	}
	if opts.BoxSize > 0 {
		n := LimitFanOut(s, opts.BoxSize)
		logger.Debug("limited box fan-out", zap.Int("boxes", n), zap.Int("box_size", opts.BoxSize))
	}
	if opts.Double {
		n := DoubleBoxes(s)
		logger.Debug("doubled boxes", zap.Int("boxes", n))
	}

	ComputeBounds(s, opts.TotalBox)

	if opts.Instancing > 0 {
		if err := CheckInstancing(s, opts.Instancing); err != nil {
			return err
		}
	}
	return nil
}

// BoxRoot wraps a non-mapping world in a new mapping whose `data` holds it.
// A mapping world is left unchanged.
func BoxRoot(s *ir.Scene) error {
	switch {
	case s.World.Is(ir.KindMapping):
		return nil
	case s.World.IsLiteral():
		return fmt.Errorf("%w (%s)", ErrLiteralRoot, s.World.Kind())
	}
	s.World = s.AddBox(s.World)
	return nil
}

// reachableMappings lists the mapping indices reachable from the world in
// pre-order, each once.
func reachableMappings(s *ir.Scene) []int {
	seen := make(map[int]bool)
	var order []int
	s.Walk(s.World, func(n ir.Node) bool {
		if !n.Is(ir.KindMapping) {
			return n.Is(ir.KindInstance)
		}
		if seen[n.Index()] {
			return false
		}
		seen[n.Index()] = true
		order = append(order, n.Index())
		return true
	})
	return order
}
