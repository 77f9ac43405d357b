// Command autoform renders interactive terminal forms from JSON Schema
// documents or OpenAPI operations, validates the submitted values, and
// prints the result as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/openapi"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/renderers/tui"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/validate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "autoform:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "autoform",
		Short:         "fill, inspect, and validate schema-driven forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newInspectCmd(), newValidateCmd(), newOperationsCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		schemaPath  string
		operationID string
		output      string
		group       string
		maxAttempts int
		ignoreEmpty bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "prompt for every field and print the collected values as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := loadDocument(ctx, schemaPath, operationID)
			if err != nil {
				return err
			}
			formModel, err := buildModel(doc, formKey(schemaPath, operationID))
			if err != nil {
				return err
			}
			renderer, err := tui.New()
			if err != nil {
				return err
			}
			opts := render.Options{
				GroupOptional: render.GroupStrategy(group),
				IgnoreEmpty:   ignoreEmpty,
			}
			values, err := collect(ctx, renderer, doc, formModel, opts, maxAttempts)
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(values, "", "  ")
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			return writeOutput(cmd, output, append(encoded, '\n'))
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema or OpenAPI document path")
	cmd.Flags().StringVar(&operationID, "operation", "", "OpenAPI operation ID (treats --schema as an OpenAPI document)")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&group, "group", string(render.GroupExpander), "optional field grouping: no, expander, sidebar")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "prompting rounds before giving up on validation")
	cmd.Flags().BoolVar(&ignoreEmpty, "ignore-empty", false, "drop empty scalar values from the result")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var (
		schemaPath  string
		operationID string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "print the generated form model as JSON without prompting",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), schemaPath, operationID)
			if err != nil {
				return err
			}
			formModel, err := buildModel(doc, formKey(schemaPath, operationID))
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(formModel, "", "  ")
			if err != nil {
				return fmt.Errorf("encode form model: %w", err)
			}
			return writeOutput(cmd, "", append(encoded, '\n'))
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema or OpenAPI document path")
	cmd.Flags().StringVar(&operationID, "operation", "", "OpenAPI operation ID")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var (
		schemaPath  string
		operationID string
		valuesPath  string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "check a JSON value document against a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), schemaPath, operationID)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(valuesPath)
			if err != nil {
				return fmt.Errorf("read values: %w", err)
			}
			var values map[string]any
			if err := json.Unmarshal(raw, &values); err != nil {
				return fmt.Errorf("decode values: %w", err)
			}
			issues := validate.Validate(doc, values)
			if len(issues) == 0 {
				cmd.Println("ok")
				return nil
			}
			for _, issue := range issues {
				cmd.PrintErrln(issue.String())
			}
			return fmt.Errorf("%d validation issue(s)", len(issues))
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema or OpenAPI document path")
	cmd.Flags().StringVar(&operationID, "operation", "", "OpenAPI operation ID")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file holding the values to check")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newOperationsCmd() *cobra.Command {
	var specPath string
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "list the operation IDs of an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(specPath)
			if err != nil {
				return fmt.Errorf("read spec: %w", err)
			}
			ids, err := openapi.New().Operations(cmd.Context(), raw)
			if err != nil {
				return err
			}
			for _, id := range ids {
				cmd.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document path")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

// collect runs the bounded prompt-validate loop, feeding mapped validation
// errors back into the renderer between rounds.
func collect(ctx context.Context, renderer render.Input, doc schema.Document, formModel model.FormModel, opts render.Options, maxAttempts int) (map[string]any, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		state, err := renderer.Render(ctx, formModel, opts)
		if err != nil {
			return nil, err
		}
		issues := validate.Validate(doc, state.Map())
		if len(issues) == 0 {
			return state.Map(), nil
		}
		payload := make(map[string][]string, len(issues))
		for _, issue := range issues {
			payload[issue.Path] = append(payload[issue.Path], issue.Message)
		}
		mapping := render.MapErrorPayload(formModel, payload)
		errs := mapping.Fields
		if len(mapping.Form) > 0 {
			if errs == nil {
				errs = make(map[string][]string)
			}
			errs[""] = mapping.Form
		}
		opts.Values = state.Map()
		opts.Errors = errs
	}
	return nil, fmt.Errorf("values still invalid after %d attempt(s)", maxAttempts)
}

func loadDocument(ctx context.Context, path, operationID string) (schema.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("read schema: %w", err)
	}
	if operationID != "" {
		return openapi.New().RequestDocument(ctx, raw, operationID)
	}
	return schema.Parse(schema.SourceFromFile(path), raw)
}

func buildModel(doc schema.Document, key string) (model.FormModel, error) {
	return model.New(model.Options{}).Build(key, doc)
}

func formKey(schemaPath, operationID string) string {
	if operationID != "" {
		return operationID
	}
	base := filepath.Base(schemaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	cmd.Printf("written to %s\n", path)
	return nil
}
