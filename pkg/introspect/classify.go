package introspect

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-autoform/pkg/schema"
)

// ErrUnsupportedShape is wrapped when a node cannot be mapped to any shape.
// Callers surface it as a visible render-time failure for the subtree.
var ErrUnsupportedShape = errors.New("introspect: unsupported schema shape")

// Classify resolves references and maps a node to exactly one Shape.
//
// Precedence matters for overlapping cases and follows the documented rule:
// references resolve first (a $ref to an enum is an enum, not an opaque
// object), then union branches, then enums, then format-qualified strings,
// then plain scalars, then containers.
func Classify(doc schema.Document, node schema.Node) (Shape, schema.Node, error) {
	resolved, err := doc.Resolve(node)
	if err != nil {
		return ShapeUnsupported, schema.Node{}, err
	}

	if shape, ok := classifyResolved(doc, resolved); ok {
		return shape, resolved, nil
	}
	return ShapeUnsupported, resolved, fmt.Errorf("%w: type=%q format=%q", ErrUnsupportedShape, resolved.Type, resolved.Format)
}

func classifyResolved(doc schema.Document, node schema.Node) (Shape, bool) {
	if branches := unionBranches(node); len(branches) > 1 {
		return ShapeUnion, true
	} else if len(branches) == 1 {
		// A single non-null branch collapses into its own classification.
		collapsed, err := doc.Resolve(branches[0])
		if err != nil {
			return ShapeUnsupported, false
		}
		return classifyResolved(doc, collapsed)
	}

	if len(node.Enum) > 0 && node.Type != "array" {
		return ShapeSingleEnum, true
	}

	switch node.Type {
	case "string":
		return classifyString(node), true
	case "integer":
		return ShapeSingleInteger, true
	case "number":
		return ShapeSingleNumber, true
	case "boolean":
		return ShapeSingleBoolean, true
	case "array":
		return classifyArray(doc, node)
	case "object", "":
		return classifyObject(node)
	default:
		return ShapeUnsupported, false
	}
}

func classifyString(node schema.Node) Shape {
	if node.ContentMediaType != "" || node.Format == "binary" || node.Format == "byte" {
		return ShapeSingleFile
	}
	switch node.Format {
	case "date-time":
		return ShapeSingleDateTime
	case "date":
		return ShapeSingleDate
	case "time":
		return ShapeSingleTime
	case "color":
		return ShapeSingleColor
	default:
		return ShapeSingleString
	}
}

func classifyArray(doc schema.Document, node schema.Node) (Shape, bool) {
	if node.Items == nil {
		return ShapeUnsupported, false
	}
	items, err := doc.Resolve(*node.Items)
	if err != nil {
		return ShapeUnsupported, false
	}

	if len(items.Enum) > 0 {
		return ShapeMultiEnum, true
	}
	if itemShape := classifyString(items); items.Type == "string" && (itemShape == ShapeSingleFile) {
		return ShapeMultiFile, true
	}
	if items.IsObject() && items.AdditionalProperties == nil && len(items.Properties) > 0 {
		return ShapeObjectList, true
	}
	switch items.Type {
	case "string", "integer", "number", "boolean":
		return ShapePrimitiveList, true
	case "object", "":
		return ShapeObjectList, true
	default:
		return ShapeUnsupported, false
	}
}

func classifyObject(node schema.Node) (Shape, bool) {
	if node.Type == "" && len(node.Properties) == 0 && node.AdditionalProperties == nil {
		// A bare node with no type and no structure carries no widget.
		return ShapeUnsupported, false
	}
	if len(node.Properties) == 0 && node.AdditionalProperties != nil {
		return ShapeSingleDict, true
	}
	return ShapeSingleObject, true
}

// unionBranches returns the non-null oneOf/anyOf branches. Nullable unions
// ("anyOf": [X, {"type":"null"}]) collapse to the single real branch.
func unionBranches(node schema.Node) []schema.Node {
	candidates := node.OneOf
	if len(candidates) == 0 {
		candidates = node.AnyOf
	}
	if len(candidates) == 0 {
		return nil
	}
	out := make([]schema.Node, 0, len(candidates))
	for _, branch := range candidates {
		if branch.Type == "null" {
			continue
		}
		out = append(out, branch)
	}
	return out
}
