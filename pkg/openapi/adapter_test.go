package openapi

import (
	"context"
	"errors"
	"testing"
)

const petstore = `{
  "openapi": "3.0.3",
  "info": {"title": "pets", "version": "1.0.0"},
  "paths": {
    "/pets": {
      "post": {
        "operationId": "createPet",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/Pet"}
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "age": {"type": "integer", "minimum": 0},
          "name": {"type": "string", "minLength": 2}
        }
      }
    }
  }
}`

func TestRequestDocumentResolvesComponentRef(t *testing.T) {
	adapter := New()

	doc, err := adapter.RequestDocument(context.Background(), []byte(petstore), "createPet")
	if err != nil {
		t.Fatalf("request document: %v", err)
	}

	root, err := doc.Resolve(doc.Root())
	if err != nil {
		t.Fatalf("resolve root: %v", err)
	}
	if !root.IsObject() {
		t.Fatalf("root should resolve to the Pet object, got %+v", root)
	}
	if !root.IsRequired("name") {
		t.Fatalf("name should be required")
	}

	age, ok := root.Property("age")
	if !ok {
		t.Fatalf("age property missing")
	}
	if age.Minimum == nil || *age.Minimum != 0 {
		t.Fatalf("age minimum not carried over: %+v", age)
	}
}

func TestSchemaDocumentSortsProperties(t *testing.T) {
	adapter := New()

	doc, err := adapter.SchemaDocument(context.Background(), []byte(petstore), "Pet")
	if err != nil {
		t.Fatalf("schema document: %v", err)
	}

	props := doc.Root().Properties
	if len(props) != 2 || props[0].Name != "age" || props[1].Name != "name" {
		t.Fatalf("properties should be sorted by name: %+v", props)
	}

	name := props[1].Node
	if name.MinLength == nil || *name.MinLength != 2 {
		t.Fatalf("minLength lost in conversion: %+v", name)
	}
}

func TestOperationsListsIDs(t *testing.T) {
	adapter := New()

	ids, err := adapter.Operations(context.Background(), []byte(petstore))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(ids) != 1 || ids[0] != "createPet" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestUnknownLookupsFail(t *testing.T) {
	adapter := New()

	if _, err := adapter.RequestDocument(context.Background(), []byte(petstore), "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := adapter.SchemaDocument(context.Background(), []byte(petstore), "Missing"); !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}
