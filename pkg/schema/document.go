package schema

import "errors"

// Document is a root schema node together with the definitions it can
// reference and the origin metadata loaders attached to it.
type Document struct {
	source      Source
	root        Node
	definitions map[string]Node
}

// NewDocument constructs a Document, validating its inputs.
func NewDocument(src Source, root Node, definitions map[string]Node) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	defs := make(map[string]Node, len(definitions))
	for name, node := range definitions {
		defs[name] = node
	}
	return Document{source: src, root: root, definitions: defs}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, root Node, definitions map[string]Node) Document {
	doc, err := NewDocument(src, root, definitions)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Root returns the root schema node.
func (d Document) Root() Node {
	return d.root
}

// Definition looks up a named definition.
func (d Document) Definition(name string) (Node, bool) {
	node, ok := d.definitions[name]
	return node, ok
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
