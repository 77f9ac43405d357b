package schema

import (
	"fmt"
	"strings"
)

// ErrUnknownReference is wrapped by Resolve when a $ref cannot be satisfied
// from the document's definitions.
var ErrUnknownReference = fmt.Errorf("schema: unknown reference")

// Resolve follows local references until a concrete node is reached.
// Annotations carried by the referring node (title, description, defaults,
// instance values, the read-only flag) override the target's so callers see
// the property as declared, not as defined. Resolution happens before any
// shape classification; a reference that points at an enum classifies as an
// enum, never as an opaque reference.
func (d Document) Resolve(node Node) (Node, error) {
	seen := make(map[string]struct{}, 4)
	current := node
	for current.Ref != "" {
		name, ok := definitionName(current.Ref)
		if !ok {
			return Node{}, fmt.Errorf("%w: %q", ErrUnknownReference, current.Ref)
		}
		if _, cycled := seen[name]; cycled {
			return Node{}, fmt.Errorf("schema: reference cycle through %q", name)
		}
		seen[name] = struct{}{}

		target, ok := d.definitions[name]
		if !ok {
			return Node{}, fmt.Errorf("%w: %q", ErrUnknownReference, current.Ref)
		}
		current = overlay(current, target)
	}
	return current, nil
}

// definitionName extracts the definition key from a local JSON pointer. The
// supported prefixes cover JSON Schema drafts and OpenAPI components.
func definitionName(ref string) (string, bool) {
	for _, prefix := range []string{
		"#/definitions/",
		"#/$defs/",
		"#/components/schemas/",
	} {
		if strings.HasPrefix(ref, prefix) {
			name := strings.TrimPrefix(ref, prefix)
			if name != "" && !strings.Contains(name, "/") {
				return name, true
			}
		}
	}
	return "", false
}

// overlay copies the target definition and re-applies the referring node's
// annotations on top of it.
func overlay(from Node, target Node) Node {
	out := target
	out.Ref = target.Ref
	if from.Title != "" {
		out.Title = from.Title
	}
	if from.Description != "" {
		out.Description = from.Description
	}
	if from.Default != nil {
		out.Default = from.Default
	}
	if from.InitValue != nil {
		out.InitValue = from.InitValue
	}
	if from.ReadOnly {
		out.ReadOnly = true
	}
	if from.WriteOnly {
		out.WriteOnly = true
	}
	return out
}
