package introspect

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-autoform/pkg/schema"
)

func docWith(t *testing.T, raw string) schema.Document {
	t.Helper()
	doc, err := schema.Parse(schema.SourceInline("test"), []byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func classifyProperty(t *testing.T, doc schema.Document, name string) Shape {
	t.Helper()
	node, ok := doc.Root().Property(name)
	if !ok {
		t.Fatalf("property %q missing", name)
	}
	shape, _, err := Classify(doc, node)
	if err != nil {
		t.Fatalf("classify %q: %v", name, err)
	}
	return shape
}

func TestClassifyShapes(t *testing.T) {
	doc := docWith(t, `{
		"type": "object",
		"properties": {
			"name":      {"type": "string"},
			"age":       {"type": "integer"},
			"score":     {"type": "number"},
			"active":    {"type": "boolean"},
			"role":      {"type": "string", "enum": ["a", "b"]},
			"roles":     {"type": "array", "items": {"type": "string", "enum": ["a", "b"]}},
			"createdAt": {"type": "string", "format": "date-time"},
			"birthday":  {"type": "string", "format": "date"},
			"alarm":     {"type": "string", "format": "time"},
			"accent":    {"type": "string", "format": "color"},
			"avatar":    {"type": "string", "contentMediaType": "image/png"},
			"photos":    {"type": "array", "items": {"type": "string", "format": "binary"}},
			"labels":    {"type": "object", "additionalProperties": {"type": "string"}},
			"author":    {"type": "object", "properties": {"email": {"type": "string"}}},
			"entries":   {"type": "array", "items": {"type": "object", "properties": {"x": {"type": "integer"}}}},
			"tags":      {"type": "array", "items": {"type": "string"}},
			"payload":   {"oneOf": [{"type": "string"}, {"type": "integer"}]}
		}
	}`)

	cases := map[string]Shape{
		"name":      ShapeSingleString,
		"age":       ShapeSingleInteger,
		"score":     ShapeSingleNumber,
		"active":    ShapeSingleBoolean,
		"role":      ShapeSingleEnum,
		"roles":     ShapeMultiEnum,
		"createdAt": ShapeSingleDateTime,
		"birthday":  ShapeSingleDate,
		"alarm":     ShapeSingleTime,
		"accent":    ShapeSingleColor,
		"avatar":    ShapeSingleFile,
		"photos":    ShapeMultiFile,
		"labels":    ShapeSingleDict,
		"author":    ShapeSingleObject,
		"entries":   ShapeObjectList,
		"tags":      ShapePrimitiveList,
		"payload":   ShapeUnion,
	}
	for name, want := range cases {
		if got := classifyProperty(t, doc, name); got != want {
			t.Errorf("%s = %s, want %s", name, got, want)
		}
	}
}

func TestClassifyResolvesReferenceBeforeShape(t *testing.T) {
	doc := docWith(t, `{
		"type": "object",
		"properties": {
			"color": {"$ref": "#/definitions/Color"}
		},
		"definitions": {
			"Color": {"type": "string", "enum": ["red", "green", "blue"]}
		}
	}`)

	node, _ := doc.Root().Property("color")
	shape, resolved, err := Classify(doc, node)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapeSingleEnum {
		t.Fatalf("referenced enum should classify as enum, got %s", shape)
	}
	if len(resolved.Enum) != 3 {
		t.Fatalf("resolved node should carry the enum values: %+v", resolved)
	}
}

func TestClassifyNullableUnionCollapses(t *testing.T) {
	doc := docWith(t, `{
		"type": "object",
		"properties": {
			"nickname": {"anyOf": [{"type": "string"}, {"type": "null"}]}
		}
	}`)

	if got := classifyProperty(t, doc, "nickname"); got != ShapeSingleString {
		t.Fatalf("nullable single-branch union should collapse, got %s", got)
	}
}

func TestClassifyEnumTaggedSliceAsMultiEnum(t *testing.T) {
	type post struct {
		Tags []string `json:"tags" enum:"red,green,blue"`
	}
	doc, err := schema.FromType(reflect.TypeOf(post{}))
	if err != nil {
		t.Fatalf("from type: %v", err)
	}
	if shape := classifyProperty(t, doc, "tags"); shape != ShapeMultiEnum {
		t.Fatalf("shape = %v, want %v", shape, ShapeMultiEnum)
	}
}

func TestClassifyUnsupportedFailsLoudly(t *testing.T) {
	doc := docWith(t, `{
		"type": "object",
		"properties": {
			"mystery": {"format": "whatever"}
		}
	}`)

	node, _ := doc.Root().Property("mystery")
	shape, _, err := Classify(doc, node)
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
	if shape != ShapeUnsupported {
		t.Fatalf("shape = %s", shape)
	}
}
