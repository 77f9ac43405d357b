package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-autoform/pkg/introspect"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTestRenderer(t *testing.T, driver PromptDriver, extra ...Option) *Renderer {
	t.Helper()
	opts := append([]Option{WithPromptDriver(driver)}, extra...)
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderStringAndEnum(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"hello"},
		selectIdx: []int{1},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "title", Shape: introspect.ShapeSingleString, Label: "Title", Required: true},
			{Name: "status", Shape: introspect.ShapeSingleEnum, Label: "Status", Required: true, Enum: []any{"draft", "published"}},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got, _ := state.GetValue("title"); got != "hello" {
		t.Fatalf("title = %v, want hello", got)
	}
	if got, _ := state.GetValue("status"); got != "published" {
		t.Fatalf("status = %v, want published", got)
	}
	if driver.inputPos != 1 || driver.selectPos != 1 {
		t.Fatalf("prompts not consumed as expected")
	}
}

func TestRenderNumberBoundsRetry(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"-1", "10"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "count",
				Shape:    introspect.ShapeSingleInteger,
				Label:    "Count",
				Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
				},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("count"); got != int64(10) {
		t.Fatalf("count = %v (%T), want int64(10)", got, got)
	}
	if len(driver.infoMessages) == 0 {
		t.Fatalf("expected validation message for first invalid input")
	}
}

func TestRenderMultipleOfRetry(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"31", "20"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "even",
				Shape:    introspect.ShapeSingleInteger,
				Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "10"}},
					{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "30"}},
					{Kind: model.ValidationRuleMultipleOf, Params: map[string]string{"value": "2"}},
				},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("even"); got != int64(20) {
		t.Fatalf("even = %v, want 20", got)
	}
}

func TestRenderSingleOptionEnumSkipsPrompt(t *testing.T) {
	driver := &stubDriver{}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "kind", Shape: introspect.ShapeSingleEnum, Label: "Kind", Required: true, Enum: []any{"only"}},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("kind"); got != "only" {
		t.Fatalf("kind = %v, want only", got)
	}
	if driver.selectPos != 0 {
		t.Fatalf("single-option enum should not prompt")
	}
}

func TestRenderNestedObjectPaths(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"ada@example.com"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "author",
				Shape:    introspect.ShapeSingleObject,
				Label:    "Author",
				Required: true,
				Nested: []model.Field{
					{Name: "email", Shape: introspect.ShapeSingleString, Label: "Email", Required: true},
				},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("author.email"); got != "ada@example.com" {
		t.Fatalf("author.email = %v", got)
	}
}

func TestRenderExpanderSkipSeedsDefaults(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"required value"},
		confirm: []bool{false}, // decline the optional section
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "name", Shape: introspect.ShapeSingleString, Required: true},
			{Name: "bio", Shape: introspect.ShapeSingleString, Default: "n/a"},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{GroupOptional: render.GroupExpander})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("bio"); got != "n/a" {
		t.Fatalf("bio = %v, want seeded default", got)
	}
	if driver.inputPos != 1 {
		t.Fatalf("optional field should not prompt when section declined")
	}
}

func TestRenderSecretUsesPassword(t *testing.T) {
	driver := &stubDriver{
		passwords: []string{"hunter2"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "apiKey", Shape: introspect.ShapeSingleString, Required: true, Secret: true},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("apiKey"); got != "hunter2" {
		t.Fatalf("apiKey = %v", got)
	}
	if driver.passPos != 1 || driver.inputPos != 0 {
		t.Fatalf("secret field should use the password prompt")
	}
}

func TestRenderDateTimeCombinesParts(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"2024-05-01", "10:30:00"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "publishedAt", Shape: introspect.ShapeSingleDateTime, Required: true},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("publishedAt"); got != "2024-05-01T10:30:00Z" {
		t.Fatalf("publishedAt = %v", got)
	}
}

func TestRenderColorRejectsNonHex(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"blue", "#00ff00"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "accent", Shape: introspect.ShapeSingleColor, Required: true},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("accent"); got != "#00ff00" {
		t.Fatalf("accent = %v", got)
	}
	if len(driver.infoMessages) == 0 {
		t.Fatalf("expected rejection message for non-hex input")
	}
}

func TestRenderPrimitiveListAddLoop(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"alpha", "beta"},
		confirm: []bool{true, true, false}, // add, add another, stop
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:  "tags",
				Shape: introspect.ShapePrimitiveList,
				Label: "Tags",
				Items: &model.Field{Name: "tagsItem", Shape: introspect.ShapeSingleString, Required: true},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got, _ := state.GetValue("tags")
	list, ok := got.([]any)
	if !ok || len(list) != 2 || list[0] != "alpha" || list[1] != "beta" {
		t.Fatalf("tags = %v", got)
	}
}

func TestRenderMultiEnumSelection(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{0, 2}},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "colors", Shape: introspect.ShapeMultiEnum, Enum: []any{"red", "green", "blue"}},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got, _ := state.GetValue("colors")
	list, ok := got.([]any)
	if !ok || len(list) != 2 || list[0] != "red" || list[1] != "blue" {
		t.Fatalf("colors = %v", got)
	}
}

func TestRenderUnionSelectsBranch(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{"42"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "value",
				Shape:    introspect.ShapeUnion,
				Required: true,
				Branches: []model.Field{
					{Name: "value", Shape: introspect.ShapeSingleString, Label: "Text"},
					{Name: "value", Shape: introspect.ShapeSingleInteger, Label: "Number"},
				},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("value"); got != int64(42) {
		t.Fatalf("value = %v (%T)", got, got)
	}
}

func TestRenderFileEncodesContent(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"docs/readme.txt"},
	}
	r := newTestRenderer(t, driver, WithFileReader(func(string) ([]byte, error) {
		return []byte("hello world"), nil
	}))

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "attachment", Shape: introspect.ShapeSingleFile, Required: true, MediaType: "text/plain"},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := base64.StdEncoding.EncodeToString([]byte("hello world"))
	if got, _ := state.GetValue("attachment"); got != want {
		t.Fatalf("attachment = %v", got)
	}
	if leaves := state.Leaves(); len(leaves) != 1 || leaves[0] != "attachment" {
		t.Fatalf("state should hold only schema paths, got %v", leaves)
	}
	announced := false
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "readme.txt") {
			announced = true
		}
	}
	if !announced {
		t.Fatalf("chosen file name should be announced: %v", driver.infoMessages)
	}
}

func TestRenderIgnoreEmptyDropsScalar(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{""},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "nickname", Shape: introspect.ShapeSingleString},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{IgnoreEmpty: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, ok := state.GetValue("nickname"); ok {
		t.Fatalf("empty optional value should be dropped")
	}
}

func TestRenderReadOnlyShowsValue(t *testing.T) {
	driver := &stubDriver{}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "id", Shape: introspect.ShapeSingleString, ReadOnly: true, InitValue: "abc-123", Label: "ID"},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("id"); got != "abc-123" {
		t.Fatalf("id = %v", got)
	}
	found := false
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "abc-123") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("read-only value should be displayed: %v", driver.infoMessages)
	}
}

func TestRenderErrorsShownBeforePrompt(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"fixed"},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "slug", Shape: introspect.ShapeSingleString, Required: true},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{
		Errors: map[string][]string{"slug": {"already taken"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := state.GetValue("slug"); got != "fixed" {
		t.Fatalf("slug = %v", got)
	}
	found := false
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "already taken") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("prior validation error should be displayed")
	}
}

func TestRenderDictRejectsDottedKeys(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"a.b", "env", "7", ""},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:  "labels",
				Shape: introspect.ShapeSingleDict,
				Label: "Labels",
				Items: &model.Field{Name: "labelsValue", Shape: introspect.ShapeSingleInteger},
			},
		},
	}

	state, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got, _ := state.GetValue("labels")
	entries, ok := got.(map[string]any)
	if !ok || len(entries) != 1 || entries["env"] != int64(7) {
		t.Fatalf("labels = %v", got)
	}
	rejected := false
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, `"a.b"`) {
			rejected = true
		}
	}
	if !rejected {
		t.Fatalf("dotted key should be rejected with a message: %v", driver.infoMessages)
	}
}
