package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/model"
)

func testForm() model.FormModel {
	return model.FormModel{
		Key: "article",
		Fields: []model.Field{
			{Name: "title"},
			{
				Name: "author",
				Nested: []model.Field{
					{Name: "email"},
				},
			},
			{
				Name: "entries",
				Items: &model.Field{
					Name: "entriesItem",
					Nested: []model.Field{
						{Name: "city"},
					},
				},
			},
		},
	}
}

func TestMapErrorPayloadNormalizesPathStyles(t *testing.T) {
	payload := map[string][]string{
		"title":            {"too short"},
		"/author/email":    {"invalid address"},
		"entries[0].city":  {"unknown city"},
		"$.author.email":   {"invalid address"}, // duplicate message collapses
		"entries.3.city":   {"unknown city too"},
		"nonexistent.path": {"lost"},
		"__root__":         {"form broken"},
	}

	mapping := MapErrorPayload(testForm(), payload)

	wantFields := map[string][]string{
		"title":        {"too short"},
		"author.email": {"invalid address"},
		"entries.city": {"unknown city", "unknown city too"},
	}
	// Message order within a path can vary by input key; compare as sets.
	for path, want := range wantFields {
		got := mapping.Fields[path]
		if len(got) != len(want) {
			t.Fatalf("%s = %v, want %v", path, got, want)
		}
		seen := make(map[string]bool, len(got))
		for _, msg := range got {
			seen[msg] = true
		}
		for _, msg := range want {
			if !seen[msg] {
				t.Fatalf("%s missing message %q: %v", path, msg, got)
			}
		}
	}

	seenForm := make(map[string]bool, len(mapping.Form))
	for _, msg := range mapping.Form {
		seenForm[msg] = true
	}
	if !seenForm["form broken"] || !seenForm["lost"] {
		t.Fatalf("unmatched and root messages should be form-level: %v", mapping.Form)
	}
}

func TestMapErrorPayloadEmpty(t *testing.T) {
	mapping := MapErrorPayload(testForm(), nil)
	if mapping.Fields != nil || mapping.Form != nil {
		t.Fatalf("empty payload should map to empty result: %+v", mapping)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	registry := NewRegistry()

	input := stubInput{name: "tui"}
	if err := registry.RegisterInput(input); err != nil {
		t.Fatalf("register input: %v", err)
	}
	if err := registry.RegisterInput(input); err == nil {
		t.Fatalf("duplicate registration should fail")
	}

	got, err := registry.Input("tui")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Name() != "tui" {
		t.Fatalf("wrong renderer: %s", got.Name())
	}
	if _, err := registry.Input("missing"); err == nil {
		t.Fatalf("unknown renderer should fail")
	}

	display := stubDisplay{name: "html"}
	registry.MustRegisterDisplay(display)
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

type stubInput struct{ name string }

func (s stubInput) Name() string { return s.name }
func (s stubInput) Render(_ context.Context, _ model.FormModel, _ Options) (*State, error) {
	return NewState(nil, nil), nil
}

type stubDisplay struct{ name string }

func (s stubDisplay) Name() string        { return s.name }
func (s stubDisplay) ContentType() string { return "text/html" }
func (s stubDisplay) Render(_ context.Context, _ model.FormModel, _ *State) ([]byte, error) {
	return nil, nil
}
