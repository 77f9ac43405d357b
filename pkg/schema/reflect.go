package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FromType derives a schema Document from a plain Go struct type via
// reflection. Property order follows struct declaration order. Supported
// struct tags:
//
//	json:"name,omitempty"  — property name; omitempty makes it optional
//	description:"..."      — help text
//	format:"..."           — date-time, date, time, color, multi-line, ...
//	default:"..."          — default value, parsed per field kind
//	enum:"a,b,c"           — allowed values, parsed per field kind
//	minimum, maximum, exclusiveMinimum, exclusiveMaximum, multipleOf
//	minLength, maxLength, pattern, minItems, maxItems
//	readOnly:"true", secret:"true", media:"image/png"
//
// Pointer fields and fields with a default are optional; everything else is
// required, matching validation-library semantics.
func FromType(t reflect.Type) (Document, error) {
	if t == nil {
		return Document{}, fmt.Errorf("schema: type is required")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Document{}, fmt.Errorf("schema: %s is not a struct type", t)
	}
	root, err := nodeFromStruct(t, reflect.Value{})
	if err != nil {
		return Document{}, err
	}
	root.Title = t.Name()
	return NewDocument(SourceInline(t.String()), root, nil)
}

// FromValue derives a schema Document from a struct instance. On top of
// FromType it seeds each property's InitValue from the instance, so renderers
// can prefill widgets and display renderers can round-trip the value.
func FromValue(v any) (Document, error) {
	if v == nil {
		return Document{}, fmt.Errorf("schema: value is required")
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return FromType(rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Document{}, fmt.Errorf("schema: %s is not a struct", rv.Type())
	}
	root, err := nodeFromStruct(rv.Type(), rv)
	if err != nil {
		return Document{}, err
	}
	root.Title = rv.Type().Name()
	return NewDocument(SourceInline(rv.Type().String()), root, nil)
}

func nodeFromStruct(t reflect.Type, instance reflect.Value) (Node, error) {
	node := Node{Type: "object"}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		var fieldValue reflect.Value
		if instance.IsValid() {
			fieldValue = instance.Field(i)
		}

		child, err := nodeFromField(field, fieldValue)
		if err != nil {
			return Node{}, fmt.Errorf("schema: field %s: %w", field.Name, err)
		}

		optional := omitEmpty || field.Type.Kind() == reflect.Pointer || child.Default != nil
		if !optional {
			node.Required = append(node.Required, name)
		}
		node.Properties = append(node.Properties, Property{Name: name, Node: child})
	}
	return node, nil
}

func nodeFromField(field reflect.StructField, value reflect.Value) (Node, error) {
	t := field.Type
	if value.IsValid() {
		for value.Kind() == reflect.Pointer && !value.IsNil() {
			value = value.Elem()
		}
		if value.Kind() == reflect.Pointer {
			value = reflect.Value{}
		}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	node, err := nodeFromType(t, value)
	if err != nil {
		return Node{}, err
	}

	applyTags(&node, field)
	if value.IsValid() && !value.IsZero() && node.InitValue == nil {
		node.InitValue = value.Interface()
	}
	return node, nil
}

func nodeFromType(t reflect.Type, value reflect.Value) (Node, error) {
	switch {
	case t == reflect.TypeOf(time.Time{}):
		return Node{Type: "string", Format: "date-time"}, nil
	case t.Kind() == reflect.String:
		return Node{Type: "string"}, nil
	case t.Kind() == reflect.Bool:
		return Node{Type: "boolean"}, nil
	case isInteger(t.Kind()):
		return Node{Type: "integer"}, nil
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return Node{Type: "number"}, nil
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		// []byte is a binary payload, not a list.
		return Node{Type: "string", ContentMediaType: "application/octet-stream"}, nil
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		items, err := nodeFromType(t.Elem(), reflect.Value{})
		if err != nil {
			return Node{}, err
		}
		return Node{Type: "array", Items: &items}, nil
	case t.Kind() == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Node{}, fmt.Errorf("map key type %s is not supported", t.Key())
		}
		elem, err := nodeFromType(t.Elem(), reflect.Value{})
		if err != nil {
			return Node{}, err
		}
		return Node{Type: "object", AdditionalProperties: &elem}, nil
	case t.Kind() == reflect.Struct:
		node, err := nodeFromStruct(t, value)
		if err != nil {
			return Node{}, err
		}
		node.Title = t.Name()
		return node, nil
	case t.Kind() == reflect.Interface:
		return Node{}, nil
	default:
		return Node{}, fmt.Errorf("kind %s is not supported", t.Kind())
	}
}

func applyTags(node *Node, field reflect.StructField) {
	tag := field.Tag

	if v := tag.Get("description"); v != "" {
		node.Description = v
	}
	if v := tag.Get("format"); v != "" {
		node.Format = v
	}
	if v := tag.Get("media"); v != "" {
		node.ContentMediaType = v
	}
	if v := tag.Get("pattern"); v != "" {
		node.Pattern = v
	}
	if v := tag.Get("default"); v != "" {
		if parsed, ok := parseScalar(v, node.Type); ok {
			node.Default = parsed
		}
	}
	if v := tag.Get("enum"); v != "" {
		// Array fields carry the enum on their items so multi-selects
		// validate each entry against the options.
		target := node
		if node.Type == "array" && node.Items != nil {
			target = node.Items
		}
		for _, entry := range strings.Split(v, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if parsed, ok := parseScalar(entry, enumBase(*node)); ok {
				target.Enum = append(target.Enum, parsed)
			}
		}
	}

	node.Minimum = tagFloat(tag, "minimum", node.Minimum)
	node.Maximum = tagFloat(tag, "maximum", node.Maximum)
	if v := tagFloat(tag, "exclusiveMinimum", nil); v != nil {
		node.Minimum = v
		node.ExclusiveMinimum = true
	}
	if v := tagFloat(tag, "exclusiveMaximum", nil); v != nil {
		node.Maximum = v
		node.ExclusiveMaximum = true
	}
	node.MultipleOf = tagFloat(tag, "multipleOf", node.MultipleOf)
	node.MinLength = tagInt(tag, "minLength", node.MinLength)
	node.MaxLength = tagInt(tag, "maxLength", node.MaxLength)
	node.MinItems = tagInt(tag, "minItems", node.MinItems)
	node.MaxItems = tagInt(tag, "maxItems", node.MaxItems)

	if v := tag.Get("readOnly"); v == "true" {
		node.ReadOnly = true
	}
	if v := tag.Get("secret"); v == "true" {
		node.WriteOnly = true
	}
}

// enumBase picks the scalar type enum entries should be parsed as. Array
// fields carry the enum of their items.
func enumBase(node Node) string {
	if node.Type == "array" && node.Items != nil {
		return node.Items.Type
	}
	return node.Type
}

func parseScalar(raw, schemaType string) (any, bool) {
	switch schemaType {
	case "integer":
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	case "number":
		v, err := strconv.ParseFloat(raw, 64)
		return v, err == nil
	case "boolean":
		v, err := strconv.ParseBool(raw)
		return v, err == nil
	default:
		return raw, true
	}
}

func tagFloat(tag reflect.StructTag, key string, current *float64) *float64 {
	raw := tag.Get(key)
	if raw == "" {
		return current
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return current
	}
	return &v
}

func tagInt(tag reflect.StructTag, key string, current *int) *int {
	raw := tag.Get(key)
	if raw == "" {
		return current
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return current
	}
	return &v
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	raw := field.Tag.Get("json")
	if raw == "-" {
		return "", false, true
	}
	name = field.Name
	if raw != "" {
		parts := strings.Split(raw, ",")
		if parts[0] != "" {
			name = parts[0]
		}
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				omitEmpty = true
			}
		}
	}
	return name, omitEmpty, false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
