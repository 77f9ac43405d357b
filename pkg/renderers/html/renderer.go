// Package html renders collected form values as a read-only HTML fragment.
// Scalars come out as preformatted blocks, nested objects as fieldsets,
// homogeneous object lists as tables, and file payloads as inline media
// previews when the media type supports embedding.
package html

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-autoform/internal/media"
	"github.com/goliatone/go-autoform/pkg/introspect"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

// FieldRenderer customizes output for individual fields. Returning handled
// false falls through to the built-in shape rendering.
type FieldRenderer func(field model.Field, value any) (fragment string, handled bool, err error)

// Option customizes the renderer during construction.
type Option func(*Renderer)

// WithPolicy overrides the sanitizer applied to descriptions.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithFieldRenderer installs a custom per-field hook consulted before the
// built-in shape dispatch.
func WithFieldRenderer(hook FieldRenderer) Option {
	return func(r *Renderer) {
		r.hook = hook
	}
}

// Renderer implements render.Display producing HTML fragments.
type Renderer struct {
	policy *bluemonday.Policy
	hook   FieldRenderer
}

// New constructs an HTML display renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		policy: bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render walks the form fields in declaration order and emits one section per
// field that has a value in the state. Missing optional values are skipped.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, state *render.State) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if state == nil {
		state = render.NewState(nil, nil)
	}

	var b strings.Builder
	b.WriteString(`<div class="af-output">`)
	if form.Title != "" {
		b.WriteString(`<h2 class="af-title">`)
		b.WriteString(html.EscapeString(form.Title))
		b.WriteString(`</h2>`)
	}
	if form.Description != "" {
		b.WriteString(`<p class="af-description">`)
		b.WriteString(r.policy.Sanitize(form.Description))
		b.WriteString(`</p>`)
	}

	for _, field := range form.Fields {
		fragment, err := r.renderField(field, field.Name, state)
		if err != nil {
			return nil, err
		}
		b.WriteString(fragment)
	}

	b.WriteString(`</div>`)
	return []byte(b.String()), nil
}

func (r *Renderer) renderField(field model.Field, path string, state *render.State) (string, error) {
	value, ok := state.GetValue(path)
	if !ok || value == nil {
		return "", nil
	}

	if r.hook != nil {
		fragment, handled, err := r.hook(field, value)
		if err != nil {
			return "", fmt.Errorf("render: field %s: %w", path, err)
		}
		if handled {
			return fragment, nil
		}
	}

	var b strings.Builder
	b.WriteString(`<section class="af-field" data-path="`)
	b.WriteString(html.EscapeString(path))
	b.WriteString(`">`)
	writeHeading(&b, field)
	if field.Description != "" {
		b.WriteString(`<p class="af-field-description">`)
		b.WriteString(r.policy.Sanitize(field.Description))
		b.WriteString(`</p>`)
	}

	body, err := r.renderValue(field, path, value, state)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	b.WriteString(`</section>`)
	return b.String(), nil
}

func (r *Renderer) renderValue(field model.Field, path string, value any, state *render.State) (string, error) {
	switch field.Shape {
	case introspect.ShapeSingleString, introspect.ShapeSingleEnum,
		introspect.ShapeSingleDateTime, introspect.ShapeSingleDate,
		introspect.ShapeSingleTime:
		return scalarBlock(fmt.Sprint(value)), nil

	case introspect.ShapeSingleInteger, introspect.ShapeSingleNumber:
		return scalarBlock(fmt.Sprint(value)), nil

	case introspect.ShapeSingleBoolean:
		if b, ok := value.(bool); ok {
			return scalarBlock(fmt.Sprintf("%t", b)), nil
		}
		return scalarBlock(fmt.Sprint(value)), nil

	case introspect.ShapeSingleColor:
		return colorSwatch(fmt.Sprint(value)), nil

	case introspect.ShapeSingleFile:
		return mediaPreview(field, fmt.Sprint(value)), nil

	case introspect.ShapeMultiFile:
		var b strings.Builder
		b.WriteString(`<div class="af-file-list">`)
		for _, item := range coerceSlice(value) {
			b.WriteString(mediaPreview(field, fmt.Sprint(item)))
		}
		b.WriteString(`</div>`)
		return b.String(), nil

	case introspect.ShapeMultiEnum, introspect.ShapePrimitiveList:
		return bulletList(coerceSlice(value)), nil

	case introspect.ShapeSingleDict:
		if m, ok := value.(map[string]any); ok {
			return definitionList(m), nil
		}
		return jsonBlock(value), nil

	case introspect.ShapeSingleObject:
		var b strings.Builder
		b.WriteString(`<fieldset class="af-object">`)
		if field.Label != "" {
			b.WriteString(`<legend>`)
			b.WriteString(html.EscapeString(field.Label))
			b.WriteString(`</legend>`)
		}
		for _, child := range field.Nested {
			fragment, err := r.renderField(child, path+"."+child.Name, state)
			if err != nil {
				return "", err
			}
			b.WriteString(fragment)
		}
		b.WriteString(`</fieldset>`)
		return b.String(), nil

	case introspect.ShapeObjectList:
		return objectTable(field, coerceSlice(value))

	case introspect.ShapeUnion:
		// Unions render whatever variant the value decoded into.
		return jsonBlock(value), nil

	default:
		return jsonBlock(value), nil
	}
}

func writeHeading(b *strings.Builder, field model.Field) {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	b.WriteString(`<h3 class="af-field-label">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</h3>`)
}

func scalarBlock(value string) string {
	var b strings.Builder
	b.WriteString(`<pre class="af-value"><code>`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`</code></pre>`)
	return b.String()
}

func colorSwatch(value string) string {
	var b strings.Builder
	escaped := html.EscapeString(value)
	b.WriteString(`<span class="af-color-swatch" style="background-color:`)
	b.WriteString(escaped)
	b.WriteString(`"></span><code>`)
	b.WriteString(escaped)
	b.WriteString(`</code>`)
	return b.String()
}

func bulletList(items []any) string {
	var b strings.Builder
	b.WriteString(`<ul class="af-list">`)
	for _, item := range items {
		b.WriteString(`<li>`)
		b.WriteString(html.EscapeString(fmt.Sprint(item)))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func definitionList(entries map[string]any) string {
	var b strings.Builder
	b.WriteString(`<dl class="af-dict">`)
	for _, key := range sortedKeys(entries) {
		b.WriteString(`<dt>`)
		b.WriteString(html.EscapeString(key))
		b.WriteString(`</dt><dd>`)
		b.WriteString(html.EscapeString(fmt.Sprint(entries[key])))
		b.WriteString(`</dd>`)
	}
	b.WriteString(`</dl>`)
	return b.String()
}

// objectTable renders homogeneous object lists as one table, columns in the
// item schema's declaration order.
func objectTable(field model.Field, items []any) (string, error) {
	if field.Items == nil || len(field.Items.Nested) == 0 {
		return jsonBlock(items), nil
	}

	var b strings.Builder
	b.WriteString(`<table class="af-table"><thead><tr>`)
	for _, col := range field.Items.Nested {
		label := col.Label
		if label == "" {
			label = col.Name
		}
		b.WriteString(`<th>`)
		b.WriteString(html.EscapeString(label))
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			// Mixed content falls back to a JSON dump of the whole list.
			return jsonBlock(items), nil
		}
		b.WriteString(`<tr>`)
		for _, col := range field.Items.Nested {
			b.WriteString(`<td>`)
			if cell, ok := row[col.Name]; ok && cell != nil {
				b.WriteString(html.EscapeString(fmt.Sprint(cell)))
			}
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String(), nil
}

// mediaPreview embeds base64 payloads for media types browsers can play
// inline, and degrades to a download link otherwise.
func mediaPreview(field model.Field, encoded string) string {
	mediaType := field.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	dataURL := "data:" + mediaType + ";base64," + encoded

	var b strings.Builder
	switch media.Classify(mediaType) {
	case media.KindImage:
		b.WriteString(`<img class="af-media" src="`)
		b.WriteString(dataURL)
		b.WriteString(`" alt="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`"/>`)
	case media.KindAudio:
		b.WriteString(`<audio class="af-media" controls src="`)
		b.WriteString(dataURL)
		b.WriteString(`"></audio>`)
	case media.KindVideo:
		b.WriteString(`<video class="af-media" controls src="`)
		b.WriteString(dataURL)
		b.WriteString(`"></video>`)
	default:
		b.WriteString(`<a class="af-download" download="`)
		b.WriteString(html.EscapeString(field.Name + media.Extension(mediaType)))
		b.WriteString(`" href="`)
		b.WriteString(dataURL)
		b.WriteString(`">Download `)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`</a>`)
	}
	return b.String()
}

// jsonBlock dumps a value as indented JSON. Values that cannot be marshalled
// degrade to their fmt representation instead of failing the render.
func jsonBlock(value any) string {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		var b strings.Builder
		b.WriteString(`<pre class="af-value"><code>`)
		b.WriteString(html.EscapeString(fmt.Sprintf("%v", value)))
		b.WriteString(`</code></pre>`)
		return b.String()
	}
	var b strings.Builder
	b.WriteString(`<pre class="af-value"><code class="language-json">`)
	b.WriteString(html.EscapeString(string(payload)))
	b.WriteString(`</code></pre>`)
	return b.String()
}

func coerceSlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{value}
	}
}
