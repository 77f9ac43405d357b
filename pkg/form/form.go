// Package form ties the pipeline together for struct-driven sessions: derive
// a schema from a Go type, prompt for values, re-validate on submit, and
// decode the collected state back into the type. The retry loop is explicit
// and bounded; callers own it instead of an ambient session.
package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/validate"
)

// ErrMaxAttempts is returned when submitted values keep failing validation
// after the configured number of prompting rounds.
var ErrMaxAttempts = errors.New("form: max attempts reached")

const defaultMaxAttempts = 3

// Option customizes a form during construction.
type Option func(*config)

type config struct {
	input         render.Input
	renderOptions render.Options
	maxAttempts   int
	labeler       model.Labeler
	initial       any
}

// WithInput sets the interactive renderer that collects values.
func WithInput(input render.Input) Option {
	return func(c *config) {
		c.input = input
	}
}

// WithRenderOptions forwards per-render options (grouping, labels, prefill).
func WithRenderOptions(opts render.Options) Option {
	return func(c *config) {
		c.renderOptions = opts
	}
}

// WithMaxAttempts bounds the validate-and-reprompt loop.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithLabeler overrides how field names become widget labels.
func WithLabeler(labeler model.Labeler) Option {
	return func(c *config) {
		c.labeler = labeler
	}
}

// WithInitial seeds widget defaults from an existing instance. Zero-value
// fields are left to the schema defaults.
func WithInitial[T any](instance T) Option {
	return func(c *config) {
		c.initial = instance
	}
}

// Form drives prompt, validate, and decode rounds for one struct type.
type Form[T any] struct {
	key     string
	doc     schema.Document
	model   model.FormModel
	input   render.Input
	opts    render.Options
	retries int
}

// New derives the schema and form model for T. The input renderer must be
// supplied via WithInput; schema derivation failures surface immediately so a
// misannotated struct fails at construction rather than mid-session.
func New[T any](key string, options ...Option) (*Form[T], error) {
	cfg := config{maxAttempts: defaultMaxAttempts}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.input == nil {
		return nil, errors.New("form: input renderer is required")
	}

	var doc schema.Document
	var err error
	if cfg.initial != nil {
		doc, err = schema.FromValue(cfg.initial)
	} else {
		var zero T
		doc, err = schema.FromType(reflect.TypeOf(zero))
	}
	if err != nil {
		return nil, fmt.Errorf("form: derive schema: %w", err)
	}

	formModel, err := model.New(model.Options{Labeler: cfg.labeler}).Build(key, doc)
	if err != nil {
		return nil, fmt.Errorf("form: build model: %w", err)
	}

	return &Form[T]{
		key:     key,
		doc:     doc,
		model:   formModel,
		input:   cfg.input,
		opts:    cfg.renderOptions,
		retries: cfg.maxAttempts,
	}, nil
}

// Model exposes the built form model, mostly for display renderers.
func (f *Form[T]) Model() model.FormModel {
	return f.model
}

// Document exposes the derived schema document.
func (f *Form[T]) Document() schema.Document {
	return f.doc
}

// Run prompts until the submitted values satisfy the schema or the attempt
// budget is exhausted, then decodes the state into a fresh T.
func (f *Form[T]) Run(ctx context.Context) (*T, error) {
	state, err := f.collect(ctx)
	if err != nil {
		return nil, err
	}
	return decode[T](state.Map())
}

// Collect behaves like Run but returns the raw value map instead of a decoded
// struct. Useful when the caller forwards values to another system.
func (f *Form[T]) Collect(ctx context.Context) (map[string]any, error) {
	state, err := f.collect(ctx)
	if err != nil {
		return nil, err
	}
	return state.Map(), nil
}

func (f *Form[T]) collect(ctx context.Context) (*render.State, error) {
	opts := f.opts
	for attempt := 0; attempt < f.retries; attempt++ {
		state, err := f.input.Render(ctx, f.model, opts)
		if err != nil {
			return nil, err
		}

		issues := validate.Validate(f.doc, state.Map())
		if len(issues) == 0 {
			return state, nil
		}

		// Re-render with the failures attached and the entered values kept.
		payload := make(map[string][]string, len(issues))
		for _, issue := range issues {
			payload[issue.Path] = append(payload[issue.Path], issue.Message)
		}
		mapping := render.MapErrorPayload(f.model, payload)
		opts.Values = state.Map()
		opts.Errors = mapping.Fields
		if len(mapping.Form) > 0 {
			if opts.Errors == nil {
				opts.Errors = make(map[string][]string)
			}
			opts.Errors[""] = mapping.Form
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrMaxAttempts, f.retries)
}

func decode[T any](values map[string]any) (*T, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("form: marshal values: %w", err)
	}
	out := new(T)
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("form: decode values: %w", err)
	}
	return out, nil
}
