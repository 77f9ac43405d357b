package model

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-autoform/pkg/introspect"
	"github.com/goliatone/go-autoform/pkg/schema"
)

// Options configures form model construction.
type Options struct {
	// Labeler converts property names into display labels. Defaults to
	// DefaultLabeler.
	Labeler Labeler
}

// Builder converts schema documents into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	if options.Labeler == nil {
		options.Labeler = DefaultLabeler
	}
	return &Builder{opts: options}
}

// Build transforms a schema document into a FormModel suitable for rendering.
// Fields keep the schema's declaration order; classification failures abort
// with the offending property path so unsupported shapes fail loudly.
func (b *Builder) Build(key string, doc schema.Document) (FormModel, error) {
	root, err := doc.Resolve(doc.Root())
	if err != nil {
		return FormModel{}, fmt.Errorf("model builder: resolve root: %w", err)
	}

	form := FormModel{
		Key:         key,
		Title:       root.Title,
		Description: root.Description,
	}

	fields, err := b.fieldsFromObject(doc, root, "")
	if err != nil {
		return FormModel{}, err
	}
	form.Fields = fields
	return form, nil
}

// BuildField exposes single-node conversion for callers that assemble forms
// property by property (the inspect CLI, display rendering).
func (b *Builder) BuildField(doc schema.Document, name string, node schema.Node, required bool) (Field, error) {
	return b.fieldFromNode(doc, name, node, required, name)
}

func (b *Builder) fieldsFromObject(doc schema.Document, node schema.Node, path string) ([]Field, error) {
	fields := make([]Field, 0, len(node.Properties))
	for _, prop := range node.Properties {
		childPath := joinPath(path, prop.Name)
		field, err := b.fieldFromNode(doc, prop.Name, prop.Node, node.IsRequired(prop.Name), childPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (b *Builder) fieldFromNode(doc schema.Document, name string, node schema.Node, required bool, path string) (Field, error) {
	shape, resolved, err := introspect.Classify(doc, node)
	if err != nil {
		return Field{}, fmt.Errorf("model builder: property %q: %w", path, err)
	}

	field := Field{
		Name:        name,
		Shape:       shape,
		Format:      resolved.Format,
		Required:    required,
		ReadOnly:    resolved.ReadOnly,
		Secret:      resolved.WriteOnly,
		Label:       b.label(name, resolved),
		Description: resolved.Description,
		Default:     resolved.Default,
		InitValue:   resolved.InitValue,
		MediaType:   resolved.ContentMediaType,
	}
	if len(resolved.Enum) > 0 {
		field.Enum = append([]any(nil), resolved.Enum...)
	}
	applyValidations(&field, resolved)
	applyExtensions(&field, resolved)

	switch shape {
	case introspect.ShapeSingleObject:
		nested, err := b.fieldsFromObject(doc, resolved, path)
		if err != nil {
			return Field{}, err
		}
		field.Nested = nested

	case introspect.ShapeSingleDict:
		value := schema.Node{Type: "string"}
		if resolved.AdditionalProperties != nil && !isBare(*resolved.AdditionalProperties) {
			value = *resolved.AdditionalProperties
		}
		item, err := b.fieldFromNode(doc, "value", value, false, path+".value")
		if err != nil {
			return Field{}, err
		}
		field.Items = &item

	case introspect.ShapeObjectList, introspect.ShapePrimitiveList:
		item, err := b.fieldFromNode(doc, name+"Item", *resolved.Items, false, path+".item")
		if err != nil {
			return Field{}, err
		}
		field.Items = &item

	case introspect.ShapeMultiEnum, introspect.ShapeMultiFile:
		items, err := doc.Resolve(*resolved.Items)
		if err != nil {
			return Field{}, fmt.Errorf("model builder: property %q items: %w", path, err)
		}
		if len(items.Enum) > 0 {
			field.Enum = append([]any(nil), items.Enum...)
		}
		if items.ContentMediaType != "" {
			field.MediaType = items.ContentMediaType
		}

	case introspect.ShapeUnion:
		branches := resolved.OneOf
		if len(branches) == 0 {
			branches = resolved.AnyOf
		}
		for i, branch := range branches {
			if branch.Type == "null" {
				continue
			}
			branchField, err := b.fieldFromNode(doc, name, branch, required, fmt.Sprintf("%s#%d", path, i))
			if err != nil {
				return Field{}, err
			}
			field.Branches = append(field.Branches, branchField)
		}
		if resolved.Discriminator != "" {
			field.ensureMetadata()["discriminator"] = resolved.Discriminator
		}
	}

	return field, nil
}

func (b *Builder) label(name string, node schema.Node) string {
	if name != "" {
		return b.opts.Labeler(name)
	}
	if node.Title != "" {
		return b.opts.Labeler(node.Title)
	}
	return ""
}

func applyValidations(field *Field, node schema.Node) {
	if node.Minimum != nil {
		params := map[string]string{"value": formatFloat(*node.Minimum)}
		if node.ExclusiveMinimum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}
	if node.Maximum != nil {
		params := map[string]string{"value": formatFloat(*node.Maximum)}
		if node.ExclusiveMaximum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}
	if node.MultipleOf != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMultipleOf,
			Params: map[string]string{"value": formatFloat(*node.MultipleOf)},
		})
	}
	if node.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*node.MinLength)},
		})
	}
	if node.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*node.MaxLength)},
		})
	}
	if node.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": node.Pattern},
		})
	}
	if node.MinItems != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinItems,
			Params: map[string]string{"value": strconv.Itoa(*node.MinItems)},
		})
	}
	if node.MaxItems != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxItems,
			Params: map[string]string{"value": strconv.Itoa(*node.MaxItems)},
		})
	}
}

func applyExtensions(field *Field, node schema.Node) {
	for key, value := range node.Extensions {
		field.ensureMetadata()[key] = fmt.Sprint(value)
	}
}

func (f *Field) ensureMetadata() map[string]string {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string)
	}
	return f.Metadata
}

func isBare(node schema.Node) bool {
	return node.Type == "" && node.Ref == "" && len(node.Properties) == 0 &&
		len(node.Enum) == 0 && node.Items == nil && node.AdditionalProperties == nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
