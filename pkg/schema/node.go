package schema

// Node is the canonical schema node consumed by the introspector and the form
// model builder. It is a normalized, JSON-Schema-shaped description of a single
// property (or of a whole model when used as a document root).
type Node struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string

	Default   any
	Example   any
	InitValue any
	Const     any
	Enum      []any

	// Properties preserves declaration order; renderers walk it top to bottom.
	Properties           []Property
	Required             []string
	Items                *Node
	AdditionalProperties *Node
	OneOf                []Node
	AnyOf                []Node
	Discriminator        string

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	MinLength        *int
	MaxLength        *int
	Pattern          string
	MinItems         *int
	MaxItems         *int
	UniqueItems      bool

	ReadOnly  bool
	WriteOnly bool

	// ContentMediaType marks binary payload properties ("image/png", ...).
	ContentMediaType string

	Extensions map[string]any
}

// Property pairs a property name with its schema node. A slice of these keeps
// the declaration order that maps lose.
type Property struct {
	Name string
	Node Node
}

// Property returns the named property and whether it exists.
func (n Node) Property(name string) (Node, bool) {
	for _, prop := range n.Properties {
		if prop.Name == name {
			return prop.Node, true
		}
	}
	return Node{}, false
}

// IsRequired reports whether the named property is in the required set.
func (n Node) IsRequired(name string) bool {
	for _, entry := range n.Required {
		if entry == name {
			return true
		}
	}
	return false
}

// IsObject reports whether the node declares (or implies) an object type.
func (n Node) IsObject() bool {
	return n.Type == "object" || (n.Type == "" && len(n.Properties) > 0)
}

// HasBounds reports whether both numeric bounds are present.
func (n Node) HasBounds() bool {
	return n.Minimum != nil && n.Maximum != nil
}
