package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-autoform/internal/media"
	"github.com/goliatone/go-autoform/pkg/introspect"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Renderer implements render.Input for terminal-driven sessions. Each field
// shape maps to exactly one prompt flow; anything outside the closed set
// fails with ErrUnsupportedField instead of silently rendering nothing.
type Renderer struct {
	driver   PromptDriver
	theme    Theme
	readFile func(path string) ([]byte, error)
}

// New constructs a TUI renderer with defaults (survey driver, os file reads).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:   driver,
		theme:    DefaultTheme(),
		readFile: os.ReadFile,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Render prompts for every field in declaration order and returns the
// collected state. Prefill values and prior validation errors arrive through
// opts; required and optional fields are split when a grouping strategy asks
// for it.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.Options) (*render.State, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := render.NewState(opts.Values, opts.Errors)
	rulesCache := make(map[string]fieldRules)

	if form.Title != "" {
		_ = r.driver.Info(ctx, r.theme.section(form.Title))
	}
	if form.Description != "" {
		_ = r.driver.Info(ctx, r.theme.help(form.Description))
	}

	required, optional := splitOptional(form.Fields, opts.GroupOptional)

	for _, field := range required {
		if err := r.promptField(ctx, field, field.Name, state, opts, rulesCache); err != nil {
			return nil, err
		}
	}

	if len(optional) > 0 {
		show := true
		if opts.GroupOptional == render.GroupExpander {
			var err error
			show, err = r.driver.Confirm(ctx, ConfirmConfig{
				Message: "Show " + r.theme.Optional + "?",
				Default: false,
			})
			if err != nil {
				return nil, err
			}
		}
		if show {
			_ = r.driver.Info(ctx, r.theme.section(r.theme.Optional))
			for _, field := range optional {
				if err := r.promptField(ctx, field, field.Name, state, opts, rulesCache); err != nil {
					return nil, err
				}
			}
		} else {
			for _, field := range optional {
				seedDefault(field, field.Name, state)
			}
		}
	}

	return state, nil
}

func splitOptional(fields []model.Field, strategy render.GroupStrategy) (required, optional []model.Field) {
	if strategy == render.GroupNone || strategy == "" {
		return fields, nil
	}
	for _, field := range fields {
		if field.Required {
			required = append(required, field)
		} else {
			optional = append(optional, field)
		}
	}
	return required, optional
}

// seedDefault records a skipped optional field's declared default so the
// collected state matches what the widgets would have shown.
func seedDefault(field model.Field, path string, state *render.State) {
	if field.InitValue != nil {
		_ = state.SetValue(path, field.InitValue)
		return
	}
	if field.Default != nil {
		_ = state.SetValue(path, field.Default)
		return
	}
	if field.Shape == introspect.ShapeSingleObject {
		for _, child := range field.Nested {
			seedDefault(child, joinPath(path, child.Name), state)
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.showErrors(ctx, path, state)

	if field.ReadOnly {
		return r.showReadOnly(ctx, field, path, state, opts)
	}

	switch field.Shape {
	case introspect.ShapeSingleString:
		return r.promptString(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleInteger, introspect.ShapeSingleNumber:
		return r.promptNumber(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleBoolean:
		return r.promptBoolean(ctx, field, path, state, opts)
	case introspect.ShapeSingleEnum:
		return r.promptEnum(ctx, field, path, state, opts)
	case introspect.ShapeMultiEnum:
		return r.promptMultiEnum(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleDateTime:
		return r.promptDateTime(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleDate:
		return r.promptDate(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleTime:
		return r.promptTime(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleColor:
		return r.promptColor(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleFile:
		return r.promptFile(ctx, field, path, state, opts)
	case introspect.ShapeMultiFile:
		return r.promptMultiFile(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleDict:
		return r.promptDict(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeSingleObject:
		return r.promptObject(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeObjectList, introspect.ShapePrimitiveList:
		return r.promptList(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeUnion:
		return r.promptUnion(ctx, field, path, state, opts, rulesCache)
	case introspect.ShapeUnsupported:
		return fmt.Errorf("%w: %s", ErrUnsupportedField, path)
	default:
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedField, path, field.Shape)
	}
}

func (r *Renderer) showErrors(ctx context.Context, path string, state *render.State) {
	for _, msg := range state.ErrorsFor(path) {
		_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("%s: %s", path, msg)))
	}
}

func (r *Renderer) showReadOnly(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options) error {
	value, ok := state.GetValue(path)
	if !ok {
		if field.InitValue != nil {
			value = field.InitValue
		} else {
			value = field.Default
		}
	}
	if value == nil {
		return nil
	}
	label := r.displayLabel(field, opts)
	if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", label, r.theme.value(fmt.Sprint(value)))); err != nil {
		return err
	}
	return state.SetValue(path, value)
}

func (r *Renderer) promptString(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	help := field.Description
	rules := compileRules(field, rulesCache, path)

	_, hadValue := state.GetValue(path)
	defaultVal := stringFromState(state, path, field)

	usePassword := field.Secret || field.Format == "password"
	useTextArea := field.Format == "multi-line" || field.Format == "textarea"

	for {
		var response string
		var err error
		switch {
		case usePassword:
			response, err = r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		case useTextArea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultVal, Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(response) == "" && !rules.required {
			if opts.IgnoreEmpty && !hadValue {
				state.Delete(path)
				return nil
			}
			return state.SetValue(path, response)
		}

		if err := rules.validateString(response); err != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, err)))
			continue
		}

		return state.SetValue(path, response)
	}
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	help := field.Description
	rules := compileRules(field, rulesCache, path)
	integer := field.Shape == introspect.ShapeSingleInteger

	_, hadValue := state.GetValue(path)
	defaultStr := numberDefault(state, path, field, rules)
	if rules.min != nil && rules.max != nil && help == "" {
		help = fmt.Sprintf("between %v and %v", *rules.min, *rules.max)
	}

	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultStr, Help: help})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)

		if input == "" {
			if rules.required {
				_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: required", path)))
				continue
			}
			if opts.IgnoreEmpty && !hadValue {
				state.Delete(path)
			} else {
				_ = state.SetValue(path, nil)
			}
			return nil
		}

		var parsed any
		if integer {
			i, convErr := strconv.ParseInt(input, 10, 64)
			if convErr != nil {
				_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, convErr)))
				continue
			}
			parsed = i
		} else {
			f, convErr := strconv.ParseFloat(input, 64)
			if convErr != nil {
				_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, convErr)))
				continue
			}
			parsed = f
		}

		if err := rules.validateNumber(parsed); err != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, err)))
			continue
		}

		return state.SetValue(path, parsed)
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options) error {
	defaultVal := false
	if v, ok := state.GetValue(path); ok {
		if b, ok := v.(bool); ok {
			defaultVal = b
		}
	} else if b, ok := field.InitValue.(bool); ok {
		defaultVal = b
	} else if b, ok := field.Default.(bool); ok {
		defaultVal = b
	}

	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.displayLabel(field, opts),
		Default: defaultVal,
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	return state.SetValue(path, resp)
}

func (r *Renderer) promptEnum(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options) error {
	label := r.displayLabel(field, opts)
	options := stringifyEnum(field.Enum)

	// A single admissible value needs no prompt.
	if len(field.Enum) == 1 {
		_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", label, r.theme.value(options[0])))
		return state.SetValue(path, field.Enum[0])
	}

	defaultIdx := -1
	if v, ok := state.GetValue(path); ok {
		defaultIdx = indexOf(options, fmt.Sprint(v))
	} else if field.InitValue != nil {
		defaultIdx = indexOf(options, fmt.Sprint(field.InitValue))
	} else if field.Default != nil {
		defaultIdx = indexOf(options, fmt.Sprint(field.Default))
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Enum) {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s selection", path)))
			continue
		}
		return state.SetValue(path, field.Enum[idx])
	}
}

func (r *Renderer) promptMultiEnum(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	rules := compileRules(field, rulesCache, path)
	options := stringifyEnum(field.Enum)

	var defaults []int
	if existing, ok := state.GetValue(path); ok {
		defaults = indicesOf(options, stringifySlice(coerceAnySlice(existing)))
	} else if init := coerceAnySlice(field.InitValue); len(init) > 0 {
		defaults = indicesOf(options, stringifySlice(init))
	}

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  options,
			Defaults: defaults,
			Help:     field.Description,
		})
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Enum) {
				selected = append(selected, field.Enum[idx])
			}
		}
		if err := rules.validateItems(len(selected)); err != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, err)))
			continue
		}
		return state.SetValue(path, selected)
	}
}

func (r *Renderer) promptDateTime(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	rules := compileRules(field, rulesCache, path)

	dateDefault, timeDefault := "", ""
	if existing := stringFromState(state, path, field); existing != "" {
		if t, err := time.Parse(time.RFC3339, existing); err == nil {
			dateDefault = t.Format(dateLayout)
			timeDefault = t.Format(timeLayout)
		}
	}

	for {
		datePart, err := r.promptLayout(ctx, label+" (date)", dateDefault, field.Description, dateLayout, rules, path)
		if err != nil {
			return err
		}
		if datePart == "" {
			if opts.IgnoreEmpty {
				state.Delete(path)
				return nil
			}
			return state.SetValue(path, "")
		}
		timePart, err := r.promptLayout(ctx, label+" (time)", timeDefault, "", timeLayout, rules, path)
		if err != nil {
			return err
		}
		if timePart == "" {
			timePart = "00:00:00"
		}
		combined, err := time.Parse(dateLayout+"T"+timeLayout, datePart+"T"+timePart)
		if err != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: %v", path, err)))
			continue
		}
		return state.SetValue(path, combined.UTC().Format(time.RFC3339))
	}
}

func (r *Renderer) promptDate(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	rules := compileRules(field, rulesCache, path)
	defaultVal := layoutDefault(state, path, field, dateLayout)
	value, err := r.promptLayout(ctx, r.displayLabel(field, opts), defaultVal, field.Description, dateLayout, rules, path)
	if err != nil {
		return err
	}
	if value == "" && opts.IgnoreEmpty {
		state.Delete(path)
		return nil
	}
	return state.SetValue(path, value)
}

func (r *Renderer) promptTime(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	rules := compileRules(field, rulesCache, path)
	defaultVal := layoutDefault(state, path, field, timeLayout)
	value, err := r.promptLayout(ctx, r.displayLabel(field, opts), defaultVal, field.Description, timeLayout, rules, path)
	if err != nil {
		return err
	}
	if value == "" && opts.IgnoreEmpty {
		state.Delete(path)
		return nil
	}
	return state.SetValue(path, value)
}

// promptLayout loops an input prompt until the response parses with the given
// time layout. Empty responses pass through for optional fields.
func (r *Renderer) promptLayout(ctx context.Context, label, defaultVal, help, layout string, rules fieldRules, path string) (string, error) {
	if help == "" {
		help = layout
	}
	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if rules.required {
				_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: required", path)))
				continue
			}
			return "", nil
		}
		if _, err := time.Parse(layout, input); err != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: expected %s", path, layout)))
			continue
		}
		return input, nil
	}
}

func (r *Renderer) promptColor(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	rules := compileRules(field, rulesCache, path)
	defaultVal := stringFromState(state, path, field)
	label := r.displayLabel(field, opts)
	freeText := field.Format == "text"

	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: "hex color, e.g. #RRGGBB"})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" && !rules.required {
			if opts.IgnoreEmpty {
				state.Delete(path)
				return nil
			}
			return state.SetValue(path, input)
		}
		if !freeText && !hexColorPattern.MatchString(input) {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Invalid %s: expected #RGB or #RRGGBB", path)))
			continue
		}
		return state.SetValue(path, input)
	}
}

func (r *Renderer) promptFile(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options) error {
	label := r.displayLabel(field, opts)
	encoded, err := r.promptFileOnce(ctx, field, label)
	if err != nil {
		return err
	}
	if encoded == "" {
		if field.Required {
			return fmt.Errorf("tui: %s: file is required", path)
		}
		if opts.IgnoreEmpty {
			state.Delete(path)
			return nil
		}
		return state.SetValue(path, nil)
	}
	return state.SetValue(path, encoded)
}

func (r *Renderer) promptMultiFile(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	rules := compileRules(field, rulesCache, path)
	mediaType := field.MediaType

	var files []any
	for {
		item := field
		item.MediaType = mediaType
		encoded, err := r.promptFileOnce(ctx, item, fmt.Sprintf("%s #%d", label, len(files)+1))
		if err != nil {
			return err
		}
		if encoded != "" {
			files = append(files, encoded)
		}

		if rules.needsMoreItems(len(files)) {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("%s: more files required", path)))
			continue
		}
		if !rules.canAddItem(len(files)) {
			break
		}
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Add another file?", Default: false})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	if err := rules.validateItems(len(files)); err != nil {
		return fmt.Errorf("tui: %s: %w", path, err)
	}
	if len(files) == 0 && opts.IgnoreEmpty {
		state.Delete(path)
		return nil
	}
	return state.SetValue(path, files)
}

// promptFileOnce asks for a path, reads the file, and returns the content
// base64-encoded. The chosen file name is surfaced through the driver's info
// line only; the value map holds just the payload so its leaves stay aligned
// with the schema.
func (r *Renderer) promptFileOnce(ctx context.Context, field model.Field, label string) (string, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Help:    fileHelp(field),
		})
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return "", nil
		}

		data, readErr := r.readFile(input)
		if readErr != nil {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("Cannot read %s: %v", input, readErr)))
			continue
		}

		kind := media.Classify(field.MediaType)
		if kind != media.KindUnknown {
			_ = r.driver.Info(ctx, r.theme.help(fmt.Sprintf("Attached %s (%d bytes, %s)", filepath.Base(input), len(data), field.MediaType)))
		} else {
			_ = r.driver.Info(ctx, r.theme.help(fmt.Sprintf("Attached %s (%d bytes)", filepath.Base(input), len(data))))
		}

		return base64.StdEncoding.EncodeToString(data), nil
	}
}

func fileHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	if field.MediaType != "" {
		return "path to a " + field.MediaType + " file"
	}
	return "path to a file"
}

func (r *Renderer) promptDict(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	if field.Items == nil {
		return fmt.Errorf("tui: dict field %s missing value schema", path)
	}

	_ = r.driver.Info(ctx, r.theme.section(label))

	count := 0
	for {
		key, err := r.driver.Input(ctx, InputConfig{
			Message: label + " key",
			Help:    "leave empty to finish",
		})
		if err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			if field.Required && count == 0 {
				_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("%s: at least one entry required", path)))
				continue
			}
			break
		}
		// Dots would be split by the dotted-path state machinery and nest
		// the entry instead of storing it under the typed key.
		if strings.Contains(key, ".") {
			_ = r.driver.Info(ctx, r.theme.errorLine(fmt.Sprintf("%s: key %q cannot contain '.'", path, key)))
			continue
		}
		value := *field.Items
		value.Label = key
		if err := r.promptField(ctx, value, joinPath(path, key), state, opts, rulesCache); err != nil {
			return err
		}
		count++
	}

	if count == 0 && !field.Required {
		if _, ok := state.GetValue(path); !ok && !opts.IgnoreEmpty {
			return state.SetValue(path, map[string]any{})
		}
	}
	return nil
}

func (r *Renderer) promptObject(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	header := r.displayLabel(field, opts)
	if header != "" {
		_ = r.driver.Info(ctx, r.theme.section(header))
	}
	if field.Description != "" {
		_ = r.driver.Info(ctx, r.theme.help(field.Description))
	}
	for _, child := range field.Nested {
		if err := r.promptField(ctx, child, joinPath(path, child.Name), state, opts, rulesCache); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptList(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	label := r.displayLabel(field, opts)
	rules := compileRules(field, rulesCache, path)
	if field.Items == nil {
		return fmt.Errorf("tui: array field %s missing items schema", path)
	}

	items := []any{}
	if existing, ok := state.GetValue(path); ok {
		items = append(items, coerceAnySlice(existing)...)
	}

	if !rules.needsMoreItems(len(items)) {
		message := "Add " + label + "?"
		if len(items) > 0 {
			message = "Add another " + label + "?"
		}
		add, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: false,
		})
		if err != nil {
			return err
		}
		if !add {
			if len(items) == 0 && opts.IgnoreEmpty {
				state.Delete(path)
				return nil
			}
			return state.SetValue(path, items)
		}
	}

	// Seed existing values back so item paths resolve during editing.
	if err := state.SetValue(path, items); err != nil {
		return err
	}

	for {
		idx := len(items)
		itemPath := fmt.Sprintf("%s.%d", path, idx)
		item := *field.Items
		item.Label = fmt.Sprintf("%s #%d", label, idx+1)
		if err := r.promptField(ctx, item, itemPath, state, opts, rulesCache); err != nil {
			return err
		}
		val, _ := state.GetValue(itemPath)
		items = append(items, val)

		if rules.needsMoreItems(len(items)) {
			continue
		}
		if !rules.canAddItem(len(items)) {
			break
		}
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Add another?", Default: false})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	if err := rules.validateItems(len(items)); err != nil {
		return fmt.Errorf("tui: %s: %w", path, err)
	}
	return state.SetValue(path, items)
}

func (r *Renderer) promptUnion(ctx context.Context, field model.Field, path string, state *render.State, opts render.Options, rulesCache map[string]fieldRules) error {
	if len(field.Branches) == 0 {
		return fmt.Errorf("%w: %s has no variants", ErrUnsupportedField, path)
	}

	labels := make([]string, len(field.Branches))
	for i, branch := range field.Branches {
		if branch.Label != "" {
			labels[i] = branch.Label
		} else {
			labels[i] = branch.Name
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: r.displayLabel(field, opts),
		Options: labels,
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Branches) {
		return fmt.Errorf("tui: %s: invalid variant selection", path)
	}

	branch := field.Branches[idx]
	branch.Required = field.Required
	return r.promptField(ctx, branch, path, state, opts, rulesCache)
}

func (r *Renderer) displayLabel(field model.Field, opts render.Options) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if opts.LowercaseLabels {
		label = strings.ToLower(label)
	}
	return label
}

func stringFromState(state *render.State, path string, field model.Field) string {
	if v, ok := state.GetValue(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	if s, ok := field.InitValue.(string); ok {
		return s
	}
	if s, ok := field.Default.(string); ok {
		return s
	}
	return ""
}

func layoutDefault(state *render.State, path string, field model.Field, layout string) string {
	raw := stringFromState(state, path, field)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse(layout, raw); err != nil {
		// Undecipherable declared defaults are dropped rather than surfaced.
		return ""
	}
	return raw
}

func numberDefault(state *render.State, path string, field model.Field, rules fieldRules) string {
	if v, ok := state.GetValue(path); ok {
		switch v.(type) {
		case int, int64, float64:
			return fmt.Sprint(v)
		}
	}
	for _, candidate := range []any{field.InitValue, field.Default} {
		switch candidate.(type) {
		case int, int64, float64:
			return fmt.Sprint(candidate)
		}
	}
	if rules.min != nil {
		return fmt.Sprint(*rules.min)
	}
	return ""
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stringifySlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func coerceAnySlice(value any) []any {
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
		return nil
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
