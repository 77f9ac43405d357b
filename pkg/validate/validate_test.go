package validate

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-autoform/pkg/schema"
)

func parseDoc(t *testing.T, raw string) schema.Document {
	t.Helper()
	doc, err := schema.Parse(schema.SourceInline("test"), []byte(raw))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return doc
}

func hasIssue(issues []Issue, path string) bool {
	for _, issue := range issues {
		if issue.Path == path {
			return true
		}
	}
	return false
}

func TestValidateBoundsAndMultipleOf(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"even": {
				"type": "integer",
				"minimum": 10,
				"maximum": 30,
				"multipleOf": 2
			}
		},
		"required": ["even"]
	}`)

	if issues := Validate(doc, map[string]any{"even": int64(20)}); len(issues) != 0 {
		t.Fatalf("20 should pass: %v", issues)
	}
	if issues := Validate(doc, map[string]any{"even": int64(31)}); len(issues) != 2 {
		t.Fatalf("31 should violate maximum and multipleOf: %v", issues)
	}
	if issues := Validate(doc, map[string]any{}); !hasIssue(issues, "even") {
		t.Fatalf("missing required field should be reported: %v", issues)
	}
}

func TestValidateOptionalAndDefaults(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"nickname": {"type": "string", "minLength": 3},
			"role": {"type": "string", "default": "viewer"}
		},
		"required": ["role"]
	}`)

	// Required field with a declared default passes when absent.
	if issues := Validate(doc, map[string]any{}); len(issues) != 0 {
		t.Fatalf("defaults satisfy required: %v", issues)
	}
	if issues := Validate(doc, map[string]any{"nickname": "jo"}); !hasIssue(issues, "nickname") {
		t.Fatalf("short nickname should fail minLength: %v", issues)
	}
}

func TestValidateNestedPaths(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"author": {
				"type": "object",
				"properties": {
					"email": {"type": "string", "pattern": "^\\S+@\\S+$"}
				},
				"required": ["email"]
			}
		},
		"required": ["author"]
	}`)

	issues := Validate(doc, map[string]any{
		"author": map[string]any{"email": "not-an-email"},
	})
	if !hasIssue(issues, "author.email") {
		t.Fatalf("nested failure should carry the dotted path: %v", issues)
	}
}

func TestValidateEnumAndArray(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"color": {"type": "string", "enum": ["red", "green"]},
			"tags": {
				"type": "array",
				"minItems": 1,
				"uniqueItems": true,
				"items": {"type": "string"}
			}
		}
	}`)

	issues := Validate(doc, map[string]any{
		"color": "blue",
		"tags":  []any{"a", "a"},
	})
	if !hasIssue(issues, "color") {
		t.Fatalf("enum violation missing: %v", issues)
	}
	if !hasIssue(issues, "tags") {
		t.Fatalf("uniqueItems violation missing: %v", issues)
	}

	if issues := Validate(doc, map[string]any{"color": "red", "tags": []any{"a"}}); len(issues) != 0 {
		t.Fatalf("valid values should pass: %v", issues)
	}
}

func TestValidateEnumTaggedSliceSelections(t *testing.T) {
	type post struct {
		Tags []string `json:"tags" enum:"red,green,blue"`
	}
	doc, err := schema.FromType(reflect.TypeOf(post{}))
	if err != nil {
		t.Fatalf("from type: %v", err)
	}

	if issues := Validate(doc, map[string]any{"tags": []any{"red", "blue"}}); len(issues) != 0 {
		t.Fatalf("valid selection should pass: %v", issues)
	}

	issues := Validate(doc, map[string]any{"tags": []any{"red", "purple"}})
	if !hasIssue(issues, "tags.1") {
		t.Fatalf("rejected entry should be reported per item: %v", issues)
	}
}

func TestValidateUnionAcceptsAnyVariant(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"value": {
				"oneOf": [
					{"type": "string"},
					{"type": "integer"}
				]
			}
		}
	}`)

	if issues := Validate(doc, map[string]any{"value": int64(3)}); len(issues) != 0 {
		t.Fatalf("integer variant should pass: %v", issues)
	}
	if issues := Validate(doc, map[string]any{"value": true}); !hasIssue(issues, "value") {
		t.Fatalf("boolean matches no variant: %v", issues)
	}
}

func TestValidateResolvesReferences(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"address": {"$ref": "#/definitions/Address"}
		},
		"required": ["address"],
		"definitions": {
			"Address": {
				"type": "object",
				"properties": {
					"zip": {"type": "string", "minLength": 4}
				},
				"required": ["zip"]
			}
		}
	}`)

	issues := Validate(doc, map[string]any{
		"address": map[string]any{"zip": "12"},
	})
	if !hasIssue(issues, "address.zip") {
		t.Fatalf("referenced schema constraints should apply: %v", issues)
	}
}
