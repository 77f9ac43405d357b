// Package autoform turns Go structs, JSON Schema documents, and OpenAPI
// operations into interactive forms. The root package exposes the common
// entry points; the pkg/ tree holds the pipeline stages (schema loading,
// shape classification, model building, rendering, validation) for callers
// that need to compose them directly.
package autoform

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-autoform/pkg/form"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/renderers/html"
	"github.com/goliatone/go-autoform/pkg/renderers/tui"
	"github.com/goliatone/go-autoform/pkg/schema"
)

// Field aliases model.Field for callers inspecting generated form models.
type Field = model.Field

// FormModel aliases model.FormModel, the renderer-facing representation.
type FormModel = model.FormModel

// RenderOptions describes per-session overrides that renderers use to
// prefill values or surface validation errors.
type RenderOptions = render.Options

// State is the explicit value map a rendering session reads and writes.
type State = render.State

// Input prompts for every field of T on the terminal and returns the raw
// collected value map without validating or decoding it. Callers that want
// the bounded validate-and-retry loop should use Run instead.
func Input[T any](ctx context.Context, key string, options ...form.Option) (map[string]any, error) {
	f, err := newForm[T](key, options)
	if err != nil {
		return nil, err
	}
	return f.Collect(ctx)
}

// Run prompts for every field of T, re-validates the submitted values against
// the derived schema, re-prompts with inline errors until they pass or the
// attempt budget runs out, and decodes the result into a fresh T.
func Run[T any](ctx context.Context, key string, options ...form.Option) (*T, error) {
	f, err := newForm[T](key, options)
	if err != nil {
		return nil, err
	}
	return f.Run(ctx)
}

func newForm[T any](key string, options []form.Option) (*form.Form[T], error) {
	input, err := tui.New()
	if err != nil {
		return nil, err
	}
	// The default terminal input goes first so a caller-supplied
	// form.WithInput still wins.
	opts := append([]form.Option{form.WithInput(input)}, options...)
	return form.New[T](key, opts...)
}

// Output renders the instance's values as a read-only HTML fragment. Fields
// are derived from the instance's type; zero-valued optional fields are
// skipped by the renderer.
func Output(ctx context.Context, key string, instance any, options ...html.Option) ([]byte, error) {
	doc, err := schema.FromValue(instance)
	if err != nil {
		return nil, err
	}
	formModel, err := model.New(model.Options{}).Build(key, doc)
	if err != nil {
		return nil, err
	}
	values, err := valueMap(instance)
	if err != nil {
		return nil, err
	}
	display, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return display.Render(ctx, formModel, render.NewState(values, nil))
}

// NewRegistry returns a renderer registry pre-populated with the built-in
// terminal input renderer and HTML display renderer.
func NewRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	input, err := tui.New()
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterInput(input); err != nil {
		return nil, err
	}
	display, err := html.New()
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterDisplay(display); err != nil {
		return nil, err
	}
	return registry, nil
}

func valueMap(instance any) (map[string]any, error) {
	raw, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("autoform: encode instance: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("autoform: decode instance: %w", err)
	}
	return values, nil
}
