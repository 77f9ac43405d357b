package model

import "github.com/goliatone/go-autoform/pkg/introspect"

const (
	ValidationRuleMin        = "min"
	ValidationRuleMax        = "max"
	ValidationRuleMultipleOf = "multipleOf"
	ValidationRuleMinLength  = "minLength"
	ValidationRuleMaxLength  = "maxLength"
	ValidationRulePattern    = "pattern"
	ValidationRuleMinItems   = "minItems"
	ValidationRuleMaxItems   = "maxItems"
)

// ValidationRule represents a single constraint applied to a field. Numeric
// bounds and length limits encode their threshold in Params["value"], pattern
// rules keep the expression in Params["pattern"], exclusivity is carried as
// Params["exclusive"] = "true" so JSON snapshots stay stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual widget inside a generated form. The Shape drives
// renderer dispatch; the remaining attributes seed widget construction.
type Field struct {
	Name        string           `json:"name"`
	Shape       introspect.Shape `json:"shape"`
	Format      string           `json:"format,omitempty"`
	Required    bool             `json:"required"`
	ReadOnly    bool             `json:"readOnly,omitempty"`
	Secret      bool             `json:"secret,omitempty"`
	Label       string           `json:"label,omitempty"`
	Description string           `json:"description,omitempty"`
	Default     any              `json:"default,omitempty"`
	InitValue   any              `json:"initValue,omitempty"`
	Enum        []any            `json:"enum,omitempty"`
	MediaType   string           `json:"mediaType,omitempty"`
	Nested      []Field          `json:"nested,omitempty"`
	Items       *Field           `json:"items,omitempty"`
	// Branches holds the alternatives of a union field, keyed by display label.
	Branches    []Field           `json:"branches,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FormModel is the top-level representation renderers consume. Fields keep
// schema declaration order.
type FormModel struct {
	Key         string            `json:"key"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}
