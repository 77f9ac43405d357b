// Package validate re-checks a collected value map against the schema it was
// generated from. Widget-level checks catch most problems while the user
// types; this pass is the authoritative one run on submit, so server-side
// constraints apply even when a prefill bypassed the widgets.
package validate

import (
	"fmt"
	"math"
	"regexp"

	"github.com/goliatone/go-autoform/pkg/schema"
)

// Issue is a single validation failure located by its dotted field path. An
// empty path marks a document-level problem.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Validate walks the document root and reports every constraint violation in
// the value map. A nil or empty result means the values satisfy the schema.
func Validate(doc schema.Document, values map[string]any) []Issue {
	root := doc.Root()
	resolved, err := doc.Resolve(root)
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	var issues []Issue
	validateObject(doc, resolved, values, "", &issues)
	return issues
}

func validateObject(doc schema.Document, node schema.Node, values map[string]any, path string, issues *[]Issue) {
	for _, prop := range node.Properties {
		childPath := joinPath(path, prop.Name)
		child, err := doc.Resolve(prop.Node)
		if err != nil {
			*issues = append(*issues, Issue{Path: childPath, Message: err.Error()})
			continue
		}

		value, present := values[prop.Name]
		if !present || value == nil {
			if node.IsRequired(prop.Name) && child.Default == nil {
				*issues = append(*issues, Issue{Path: childPath, Message: "field is required"})
			}
			continue
		}

		validateValue(doc, child, value, childPath, issues)
	}

	if node.AdditionalProperties != nil {
		child, err := doc.Resolve(*node.AdditionalProperties)
		if err != nil {
			*issues = append(*issues, Issue{Path: path, Message: err.Error()})
			return
		}
		declared := make(map[string]struct{}, len(node.Properties))
		for _, prop := range node.Properties {
			declared[prop.Name] = struct{}{}
		}
		for key, value := range values {
			if _, ok := declared[key]; ok {
				continue
			}
			if value == nil {
				continue
			}
			validateValue(doc, child, value, joinPath(path, key), issues)
		}
	}
}

func validateValue(doc schema.Document, node schema.Node, value any, path string, issues *[]Issue) {
	if len(node.OneOf) > 0 || len(node.AnyOf) > 0 {
		validateUnion(doc, node, value, path, issues)
		return
	}

	if len(node.Enum) > 0 {
		if !enumContains(node.Enum, value) {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("value %v is not one of the allowed options", value)})
		}
		return
	}

	switch node.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected string, got %T", value)})
			return
		}
		validateString(node, s, path, issues)

	case "integer":
		f, ok := asFloat(value)
		if !ok || f != math.Trunc(f) {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected integer, got %v", value)})
			return
		}
		validateNumber(node, f, path, issues)

	case "number":
		f, ok := asFloat(value)
		if !ok {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected number, got %T", value)})
			return
		}
		validateNumber(node, f, path, issues)

	case "boolean":
		if _, ok := value.(bool); !ok {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected boolean, got %T", value)})
		}

	case "array":
		items, ok := value.([]any)
		if !ok {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected array, got %T", value)})
			return
		}
		validateArray(doc, node, items, path, issues)

	case "object":
		nested, ok := value.(map[string]any)
		if !ok {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected object, got %T", value)})
			return
		}
		validateObject(doc, node, nested, path, issues)
	}
}

func validateString(node schema.Node, value string, path string, issues *[]Issue) {
	if node.MinLength != nil && len(value) < *node.MinLength {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be at least %d characters", *node.MinLength)})
	}
	if node.MaxLength != nil && len(value) > *node.MaxLength {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be at most %d characters", *node.MaxLength)})
	}
	if node.Pattern != "" {
		re, err := regexp.Compile(node.Pattern)
		if err == nil && !re.MatchString(value) {
			*issues = append(*issues, Issue{Path: path, Message: "does not match required pattern"})
		}
	}
}

func validateNumber(node schema.Node, value float64, path string, issues *[]Issue) {
	if node.Minimum != nil {
		if node.ExclusiveMinimum && value <= *node.Minimum {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be greater than %v", *node.Minimum)})
		} else if !node.ExclusiveMinimum && value < *node.Minimum {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be at least %v", *node.Minimum)})
		}
	}
	if node.Maximum != nil {
		if node.ExclusiveMaximum && value >= *node.Maximum {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be less than %v", *node.Maximum)})
		} else if !node.ExclusiveMaximum && value > *node.Maximum {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be at most %v", *node.Maximum)})
		}
	}
	if node.MultipleOf != nil && *node.MultipleOf != 0 {
		rem := math.Abs(math.Mod(value, *node.MultipleOf))
		if rem > 1e-9 && math.Abs(rem-*node.MultipleOf) > 1e-9 {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must be a multiple of %v", *node.MultipleOf)})
		}
	}
}

func validateArray(doc schema.Document, node schema.Node, items []any, path string, issues *[]Issue) {
	if node.MinItems != nil && len(items) < *node.MinItems {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must have at least %d items", *node.MinItems)})
	}
	if node.MaxItems != nil && len(items) > *node.MaxItems {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("must have at most %d items", *node.MaxItems)})
	}
	if node.UniqueItems {
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			key := fmt.Sprint(item)
			if _, dup := seen[key]; dup {
				*issues = append(*issues, Issue{Path: path, Message: "items must be unique"})
				break
			}
			seen[key] = struct{}{}
		}
	}
	if node.Items == nil {
		return
	}
	itemNode, err := doc.Resolve(*node.Items)
	if err != nil {
		*issues = append(*issues, Issue{Path: path, Message: err.Error()})
		return
	}
	for idx, item := range items {
		if item == nil {
			continue
		}
		validateValue(doc, itemNode, item, fmt.Sprintf("%s.%d", path, idx), issues)
	}
}

// validateUnion accepts the value if any non-null variant accepts it.
func validateUnion(doc schema.Document, node schema.Node, value any, path string, issues *[]Issue) {
	branches := node.OneOf
	if len(branches) == 0 {
		branches = node.AnyOf
	}
	for _, branch := range branches {
		if branch.Type == "null" {
			continue
		}
		resolved, err := doc.Resolve(branch)
		if err != nil {
			continue
		}
		var branchIssues []Issue
		validateValue(doc, resolved, value, path, &branchIssues)
		if len(branchIssues) == 0 {
			return
		}
	}
	*issues = append(*issues, Issue{Path: path, Message: "value does not match any allowed variant"})
}

func enumContains(options []any, value any) bool {
	for _, option := range options {
		if option == value {
			return true
		}
		if fmt.Sprint(option) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
