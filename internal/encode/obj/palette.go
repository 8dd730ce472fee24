package obj

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
	"github.com/Faultbox/scene-builder/pkg/math"
)

// palette tracks materials by the index of the sequence backing a `color`
// field, so every distinct color sequence is declared once.
type palette struct {
	current   int
	materials map[int]bool
}

func newPalette(e *encoder, def int) *palette {
	p := &palette{materials: make(map[int]bool)}
	p.register(e, math.Vec3{}, def)
	return p
}

func (p *palette) register(e *encoder, kd math.Vec3, idx int) {
	e.emit("")
	e.emit("newmtl color" + itoa(idx))
	e.emit("Kd " + point(kd))
	e.emit("Ks 0.5 0.5 0.5")
	e.emit("Ns 18.0")
	e.emit("")
	e.emit("usemtl color" + itoa(idx))
	p.materials[idx] = true
	p.current = idx
}

func (p *palette) use(e *encoder, idx int) {
	e.emit("usemtl color" + itoa(idx))
	p.current = idx
}

// restore switches back to idx if another material is current.
func (p *palette) restore(e *encoder, idx int) {
	if p.current != idx {
		p.use(e, idx)
	}
}

// update applies a node's `color` field, if any, and returns the material
// now in effect.
func (p *palette) update(e *encoder, owner ir.Node, color ir.Node, ok bool) int {
	if !ok {
		return p.current
	}
	if !color.Is(ir.KindSequence) {
		logger.Warn("color is not a sequence, ignoring",
			zap.Stringer("node", owner), zap.Stringer("color", color))
		return p.current
	}
	idx := color.Index()
	switch {
	case idx == p.current:
	case p.materials[idx]:
		p.use(e, idx)
	default:
		p.register(e, channels(e.scene, owner, idx), idx)
	}
	return p.current
}

// channels converts a color sequence from 0-255 channels to 0-1. Missing or
// non-numeric channels stay 0.
func channels(s *ir.Scene, owner ir.Node, seq int) math.Vec3 {
	vals := s.Sequences[seq].Vals
	if len(vals) != 3 {
		logger.Warn("color should have 3 components",
			zap.Stringer("node", owner), zap.Int("found", len(vals)))
	}
	var kd math.Vec3
	for i := 0; i < len(vals) && i < 3; i++ {
		v, ok := vals[i].AsNumber()
		if !ok {
			logger.Warn("color channel is not a number",
				zap.Stringer("node", owner), zap.Int("channel", i))
			continue
		}
		kd = kd.Set(i, v/255)
	}
	return kd
}
