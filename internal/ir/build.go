package ir

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scene-builder/pkg/math"
)

// builder turns a YAML tree into a Scene. namespace holds the indices of the
// mappings currently being parsed, outermost first.
type builder struct {
	scene     *Scene
	namespace []int
}

// Build converts a decoded YAML document into a reference-resolved scene.
func Build(doc *yaml.Node) (*Scene, error) {
	b := &builder{scene: NewScene()}
	world, err := b.parse(doc)
	if err != nil {
		return nil, err
	}
	b.scene.World = world
	return b.scene, nil
}

func (b *builder) parse(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Node{}, fmt.Errorf("%w: empty YAML document", ErrStructural)
		}
		return b.parse(n.Content[0])
	case yaml.AliasNode:
		return b.parse(n.Alias)
	case yaml.ScalarNode:
		return b.parseScalar(n)
	case yaml.SequenceNode:
		vals := make([]Node, 0, len(n.Content))
		for _, elem := range n.Content {
			node, err := b.parse(elem)
			if err != nil {
				return Node{}, err
			}
			vals = append(vals, node)
		}
		return b.scene.AddSequence(vals...), nil
	case yaml.MappingNode:
		return b.parseMapping(n)
	}
	return Node{}, fmt.Errorf("%w: unsupported YAML value at line %d", ErrStructural, n.Line)
}

func (b *builder) parseScalar(n *yaml.Node) (Node, error) {
	switch n.ShortTag() {
	case "!!int", "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return Node{}, fmt.Errorf("%w: could not parse number %q at line %d", ErrStructural, n.Value, n.Line)
		}
		return Number(v), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return Node{}, fmt.Errorf("%w: could not parse boolean %q at line %d", ErrStructural, n.Value, n.Line)
		}
		return Bool(v), nil
	case "!!str":
		if found, ok := b.resolve(n.Value); ok {
			return found, nil
		}
		return Node{}, fmt.Errorf("%w: could not resolve reference %q at line %d", ErrReference, n.Value, n.Line)
	}
	return Node{}, fmt.Errorf("%w: unsupported scalar %s %q at line %d", ErrStructural, n.ShortTag(), n.Value, n.Line)
}

// resolve looks name up innermost mapping first.
func (b *builder) resolve(name string) (Node, bool) {
	for i := len(b.namespace) - 1; i >= 0; i-- {
		if found, ok := b.scene.Mappings[b.namespace[i]].Fields[name]; ok {
			return found, true
		}
	}
	return Node{}, false
}

func (b *builder) parseMapping(n *yaml.Node) (Node, error) {
	idx := b.scene.AddMapping(nil).Index()
	b.namespace = append(b.namespace, idx)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
			return Node{}, fmt.Errorf("%w: name in YAML field found to be non-string at line %d", ErrStructural, key.Line)
		}
		if _, dup := b.scene.Mappings[idx].Fields[key.Value]; dup {
			return Node{}, fmt.Errorf("%w: field %q defined more than once at line %d", ErrStructural, key.Value, key.Line)
		}
		node, err := b.parse(val)
		if err != nil {
			return Node{}, err
		}
		// Fields are inserted only after parsing so a value can refer to
		// earlier siblings but never to itself or later ones.
		b.scene.Mappings[idx].Fields[key.Value] = node
	}

	b.namespace = b.namespace[:len(b.namespace)-1]
	return b.classify(idx)
}

// classify decides what the freshly parsed mapping at idx really is.
func (b *builder) classify(idx int) (Node, error) {
	fields := b.scene.Mappings[idx].Fields
	_, hasOrigin := fields[FieldOrigin]
	_, hasDirection := fields[FieldDirection]
	_, hasExtent := fields[FieldExtent]
	_, hasMax := fields[FieldMax]

	if data, ok := fields[FieldData]; ok {
		if err := b.checkData(data); err != nil {
			return Node{}, err
		}
		return Ref(KindMapping, idx), nil
	}
	if _, ok := fields[FieldInstance]; ok {
		return b.toInstance(idx)
	}
	if hasOrigin && hasDirection && (hasExtent || hasMax) {
		return b.toRay(idx)
	}
	if _, ok := fields[FieldStrip]; ok {
		return b.toStrip(idx)
	}
	return Ref(KindMapping, idx), nil
}

func (b *builder) checkData(data Node) error {
	if !data.Is(KindSequence) {
		return fmt.Errorf("%w: field `data` must be a sequence", ErrStructural)
	}
	for i, elem := range b.scene.Sequences[data.Index()].Vals {
		if !elem.IsGeometry() {
			return fmt.Errorf("%w: all elements in `data` must be objects, but a %s was found at index %d",
				ErrStructural, elem.Kind(), i)
		}
	}
	return nil
}

func (b *builder) toInstance(idx int) (Node, error) {
	inst := Instance{
		Scale:  math.Splat(1),
		Fields: Fields{},
	}

	for key, value := range b.scene.Mappings[idx].Fields {
		var err error
		switch key {
		case FieldInstance:
			if !value.IsGeometry() {
				return Node{}, fmt.Errorf("%w: field `instance` must hold the value of some other object, not a %s",
					ErrType, value.Kind())
			}
			inst.Affected = value
		case FieldScale:
			inst.Scale, err = b.scene.As3D(value)
		case FieldRotate:
			inst.Rotate, err = b.scene.As3D(value)
		case FieldTranslate:
			inst.Translate, err = b.scene.As3D(value)
		default:
			inst.Fields[key] = value
		}
		if err != nil {
			return Node{}, fmt.Errorf("field `%s`: %w", key, err)
		}
	}

	b.scene.discardMapping(idx)
	return b.scene.AddInstance(inst), nil
}

func (b *builder) toRay(idx int) (Node, error) {
	fields := b.scene.Mappings[idx].Fields
	if _, ok := fields[FieldExtent]; ok {
		if _, ok := fields[FieldMax]; ok {
			return Node{}, fmt.Errorf("%w: ray defines both `extent` and `max`", ErrStructural)
		}
	}

	ray := Ray{Fields: Fields{}}
	for key, value := range fields {
		var err error
		switch key {
		case FieldOrigin:
			ray.Origin, err = b.scene.As3D(value)
		case FieldDirection:
			ray.Direction, err = b.scene.As3D(value)
		case FieldExtent, FieldMax:
			ray.Extent, err = asScalar(key, value)
		case FieldMin:
			ray.Min, err = asScalar(key, value)
		default:
			ray.Fields[key] = value
		}
		if err != nil {
			return Node{}, fmt.Errorf("ray field `%s`: %w", key, err)
		}
	}

	b.scene.discardMapping(idx)
	return b.scene.AddRay(ray), nil
}

func (b *builder) toStrip(idx int) (Node, error) {
	strip := Strip{Fields: Fields{}}

	for key, value := range b.scene.Mappings[idx].Fields {
		if key != FieldStrip {
			strip.Fields[key] = value
			continue
		}
		if !value.Is(KindSequence) {
			return Node{}, fmt.Errorf("%w: field `strip` must hold a sequence of at least 3 points", ErrStructural)
		}
		vertices := b.scene.Sequences[value.Index()].Vals
		if len(vertices) < 3 {
			return Node{}, fmt.Errorf("%w: the field `strip` must have a sequence with at least 3 vertices, but only %d were found",
				ErrStructural, len(vertices))
		}
		for i, vertex := range vertices {
			p, err := b.scene.As3D(vertex)
			if err != nil {
				return Node{}, fmt.Errorf("strip vertex %d: %w", i, err)
			}
			strip.Vertices = append(strip.Vertices, p)
		}
	}

	b.scene.discardMapping(idx)
	return b.scene.AddStrip(strip), nil
}

func asScalar(key string, n Node) (float64, error) {
	v, ok := n.AsNumber()
	if !ok {
		return 0, fmt.Errorf("%w: field `%s` must be a number, got %s", ErrType, key, n)
	}
	return v, nil
}
