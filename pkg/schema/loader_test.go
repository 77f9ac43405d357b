package schema

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func parse(t *testing.T, raw string) Document {
	t.Helper()
	doc, err := Parse(SourceInline("test"), []byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParsePreservesDeclarationOrderJSON(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"zebra": {"type": "string"},
			"apple": {"type": "integer"},
			"mango": {"type": "boolean"}
		}
	}`)

	props := doc.Root().Properties
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	want := []string{"zebra", "apple", "mango"}
	for i, name := range want {
		if props[i].Name != name {
			t.Fatalf("property %d = %s, want %s", i, props[i].Name, name)
		}
	}
}

func TestParsePreservesDeclarationOrderYAML(t *testing.T) {
	doc := parse(t, strings.TrimSpace(`
type: object
properties:
  zebra:
    type: string
  apple:
    type: integer
`))

	props := doc.Root().Properties
	if len(props) != 2 || props[0].Name != "zebra" || props[1].Name != "apple" {
		t.Fatalf("order not preserved: %+v", props)
	}
}

func TestParseNullableTypeUnion(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"nickname": {"type": ["string", "null"]}
		}
	}`)

	nickname, ok := doc.Root().Property("nickname")
	if !ok {
		t.Fatalf("nickname missing")
	}
	if nickname.Type != "string" {
		t.Fatalf("null member should be dropped, got type %q", nickname.Type)
	}
}

func TestParseAdditionalPropertiesForms(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"open":   {"type": "object", "additionalProperties": true},
			"closed": {"type": "object", "additionalProperties": false},
			"typed":  {"type": "object", "additionalProperties": {"type": "integer"}}
		}
	}`)

	open, _ := doc.Root().Property("open")
	if open.AdditionalProperties == nil {
		t.Fatalf("additionalProperties: true should yield an unconstrained node")
	}
	closed, _ := doc.Root().Property("closed")
	if closed.AdditionalProperties != nil {
		t.Fatalf("additionalProperties: false should yield nil")
	}
	typed, _ := doc.Root().Property("typed")
	if typed.AdditionalProperties == nil || typed.AdditionalProperties.Type != "integer" {
		t.Fatalf("typed additionalProperties lost: %+v", typed.AdditionalProperties)
	}
}

func TestParseExclusiveBoundForms(t *testing.T) {
	// Draft-4 boolean flag next to the bound.
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "number", "minimum": 5, "exclusiveMinimum": true},
			"b": {"type": "number", "exclusiveMaximum": 10}
		}
	}`)

	a, _ := doc.Root().Property("a")
	if a.Minimum == nil || *a.Minimum != 5 || !a.ExclusiveMinimum {
		t.Fatalf("draft-4 exclusive bound lost: %+v", a)
	}
	// 2020-12 numeric form carries the bound itself.
	b, _ := doc.Root().Property("b")
	if b.Maximum == nil || *b.Maximum != 10 || !b.ExclusiveMaximum {
		t.Fatalf("numeric exclusive bound lost: %+v", b)
	}
}

func TestParseCollectsDefinitions(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"home": {"$ref": "#/definitions/Address"}
		},
		"definitions": {
			"Address": {"type": "object", "properties": {"zip": {"type": "string"}}}
		}
	}`)

	address, ok := doc.Definition("Address")
	if !ok {
		t.Fatalf("Address definition missing")
	}
	if _, ok := address.Property("zip"); !ok {
		t.Fatalf("definition content lost: %+v", address)
	}
}

func TestParseExtensionsAndMedia(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"avatar": {
				"type": "string",
				"contentMediaType": "image/png",
				"x-widget": "upload"
			}
		}
	}`)

	avatar, _ := doc.Root().Property("avatar")
	if avatar.ContentMediaType != "image/png" {
		t.Fatalf("contentMediaType lost: %+v", avatar)
	}
	if avatar.Extensions["x-widget"] != "upload" {
		t.Fatalf("x- extension lost: %+v", avatar.Extensions)
	}
}

func TestParseRejectsNonMappingRoot(t *testing.T) {
	if _, err := Parse(SourceInline("test"), []byte(`[1, 2, 3]`)); err == nil {
		t.Fatalf("expected error for sequence root")
	}
	if _, err := Parse(SourceInline("test"), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"schemas/person.yaml": &fstest.MapFile{Data: []byte("type: object\nproperties:\n  name:\n    type: string\n")},
	}

	doc, err := LoadFS(fsys, "schemas/person.yaml")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if _, ok := doc.Root().Property("name"); !ok {
		t.Fatalf("loaded schema missing property")
	}
}

func TestResolveOverlayAndCycles(t *testing.T) {
	doc := parse(t, `{
		"type": "object",
		"properties": {
			"home": {
				"$ref": "#/definitions/Address",
				"title": "Home Address",
				"default": {"zip": "00000"}
			}
		},
		"definitions": {
			"Address": {
				"type": "object",
				"title": "Address",
				"properties": {"zip": {"type": "string"}}
			},
			"Loop": {"$ref": "#/definitions/Loop"}
		}
	}`)

	home, _ := doc.Root().Property("home")
	resolved, err := doc.Resolve(home)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Title != "Home Address" {
		t.Fatalf("referring annotations should win: %q", resolved.Title)
	}
	if resolved.Default == nil {
		t.Fatalf("referring default should be kept")
	}
	if _, ok := resolved.Property("zip"); !ok {
		t.Fatalf("target structure should be kept")
	}

	if _, err := doc.Resolve(Node{Ref: "#/definitions/Loop"}); err == nil {
		t.Fatalf("cycles must fail")
	}
	if _, err := doc.Resolve(Node{Ref: "#/definitions/Nope"}); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("unknown refs must wrap ErrUnknownReference, got %v", err)
	}
}
