// Package openapi adapts OpenAPI 3 documents into schema documents so the
// rest of the pipeline stays source-agnostic. Request bodies keyed by
// operationId and component schemas both convert into the canonical node
// shape.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-autoform/pkg/schema"
)

// ErrOperationNotFound is returned when no operation carries the requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// ErrSchemaNotFound is returned when the named component schema is missing.
var ErrSchemaNotFound = errors.New("openapi: component schema not found")

// requestMediaTypes lists body content types checked in preference order.
var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Adapter loads OpenAPI payloads and converts them to schema documents.
type Adapter struct {
	allowExternalRefs bool
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithExternalRefs allows the loader to follow references outside the
// document. Off by default.
func WithExternalRefs() Option {
	return func(a *Adapter) {
		a.allowExternalRefs = true
	}
}

// New constructs an Adapter.
func New(options ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// RequestDocument extracts the request body schema of the identified
// operation and returns it as a schema document. Component schemas become the
// document's definitions so references keep resolving.
func (a *Adapter) RequestDocument(ctx context.Context, raw []byte, operationID string) (schema.Document, error) {
	spec, err := a.load(ctx, raw)
	if err != nil {
		return schema.Document{}, err
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Document{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return schema.Document{}, fmt.Errorf("openapi: operation %s has no request body schema", operationID)
	}

	root := convertNode(body)
	return schema.NewDocument(schema.SourceInline("openapi:"+operationID), root, componentDefinitions(spec))
}

// SchemaDocument converts the named component schema into a document rooted
// at that schema.
func (a *Adapter) SchemaDocument(ctx context.Context, raw []byte, name string) (schema.Document, error) {
	spec, err := a.load(ctx, raw)
	if err != nil {
		return schema.Document{}, err
	}

	if spec.Components == nil || spec.Components.Schemas == nil {
		return schema.Document{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok {
		return schema.Document{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}

	root := convertNode(ref)
	root.Ref = "" // the component itself is the root, not a reference to it
	return schema.NewDocument(schema.SourceInline("openapi:"+name), root, componentDefinitions(spec))
}

// Operations lists the operation ids found in the document, sorted.
func (a *Adapter) Operations(ctx context.Context, raw []byte) ([]string, error) {
	spec, err := a.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	var ids []string
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				if operation == nil {
					continue
				}
				id := operation.OperationID
				if id == "" {
					id = strings.ToLower(method) + ":" + path
				}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *Adapter) load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: a.allowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.SchemaRef {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

func componentDefinitions(spec *openapi3.T) map[string]schema.Node {
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil
	}
	definitions := make(map[string]schema.Node, len(spec.Components.Schemas))
	for name, ref := range spec.Components.Schemas {
		node := convertNode(ref)
		node.Ref = ""
		definitions[name] = node
	}
	return definitions
}

// convertNode maps a kin-openapi schema onto the canonical node. Property
// order is not recoverable from the loader's maps, so properties sort
// alphabetically for deterministic output.
func convertNode(ref *openapi3.SchemaRef) schema.Node {
	if ref == nil {
		return schema.Node{}
	}
	if ref.Ref != "" {
		return schema.Node{Ref: ref.Ref}
	}
	src := ref.Value
	if src == nil {
		return schema.Node{}
	}

	node := schema.Node{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
		UniqueItems: src.UniqueItems,
		ReadOnly:    src.ReadOnly,
		WriteOnly:   src.WriteOnly,
	}

	if len(src.Enum) > 0 {
		node.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Required) > 0 {
		node.Required = append([]string(nil), src.Required...)
	}

	if len(src.Properties) > 0 {
		names := make([]string, 0, len(src.Properties))
		for name := range src.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		node.Properties = make([]schema.Property, 0, len(names))
		for _, name := range names {
			node.Properties = append(node.Properties, schema.Property{
				Name: name,
				Node: convertNode(src.Properties[name]),
			})
		}
	}

	if src.Items != nil {
		items := convertNode(src.Items)
		node.Items = &items
	}
	if src.AdditionalProperties.Schema != nil {
		additional := convertNode(src.AdditionalProperties.Schema)
		node.AdditionalProperties = &additional
	} else if src.AdditionalProperties.Has != nil && *src.AdditionalProperties.Has {
		node.AdditionalProperties = &schema.Node{}
	}

	for _, branch := range src.OneOf {
		node.OneOf = append(node.OneOf, convertNode(branch))
	}
	for _, branch := range src.AnyOf {
		node.AnyOf = append(node.AnyOf, convertNode(branch))
	}
	if src.Discriminator != nil {
		node.Discriminator = src.Discriminator.PropertyName
	}

	if src.Min != nil {
		value := *src.Min
		node.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		node.Maximum = &value
	}
	node.ExclusiveMinimum = src.ExclusiveMin
	node.ExclusiveMaximum = src.ExclusiveMax
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		node.MultipleOf = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		node.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		node.MaxLength = &value
	}
	if src.MinItems != 0 {
		value := int(src.MinItems)
		node.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		node.MaxItems = &value
	}

	if len(src.Extensions) > 0 {
		node.Extensions = make(map[string]any, len(src.Extensions))
		for key, value := range src.Extensions {
			node.Extensions[key] = value
		}
	}

	return node
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
