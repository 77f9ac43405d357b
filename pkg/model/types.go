// Package model re-exports the internal form model so downstream renderers
// and callers share one set of types.
package model

import internalmodel "github.com/goliatone/go-autoform/internal/model"

const (
	ValidationRuleMin        = internalmodel.ValidationRuleMin
	ValidationRuleMax        = internalmodel.ValidationRuleMax
	ValidationRuleMultipleOf = internalmodel.ValidationRuleMultipleOf
	ValidationRuleMinLength  = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength  = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern    = internalmodel.ValidationRulePattern
	ValidationRuleMinItems   = internalmodel.ValidationRuleMinItems
	ValidationRuleMaxItems   = internalmodel.ValidationRuleMaxItems
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
type Options = internalmodel.Options
type Builder = internalmodel.Builder
type Labeler = internalmodel.Labeler

// New constructs a form model builder.
func New(options Options) *Builder {
	return internalmodel.New(options)
}

// DefaultLabeler converts property names into Title Case labels.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
