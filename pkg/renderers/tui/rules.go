package tui

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-autoform/pkg/model"
)

type fieldRules struct {
	required     bool
	min          *float64
	max          *float64
	exclusiveMin bool
	exclusiveMax bool
	multipleOf   *float64
	minLen       *int
	maxLen       *int
	pattern      *regexp.Regexp
	minItems     *int
	maxItems     *int
}

func compileRules(field model.Field, cache map[string]fieldRules, path string) fieldRules {
	if rules, ok := cache[path]; ok {
		return rules
	}
	rules := fieldRules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.min = &val
				rules.exclusiveMin = v.Params["exclusive"] == "true"
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.max = &val
				rules.exclusiveMax = v.Params["exclusive"] == "true"
			}
		case model.ValidationRuleMultipleOf:
			if val, ok := parseFloat(v.Params["value"]); ok && val != 0 {
				rules.multipleOf = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		case model.ValidationRuleMinItems:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minItems = &val
			}
		case model.ValidationRuleMaxItems:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxItems = &val
			}
		}
	}
	cache[path] = rules
	return rules
}

func (r fieldRules) validateString(value string) error {
	if r.required && strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	return nil
}

func (r fieldRules) validateNumber(value any) error {
	var v float64
	switch n := value.(type) {
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case float64:
		v = n
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
	if r.min != nil {
		if r.exclusiveMin && v <= *r.min {
			return fmt.Errorf("must be greater than %v", *r.min)
		}
		if !r.exclusiveMin && v < *r.min {
			return fmt.Errorf("min %v", *r.min)
		}
	}
	if r.max != nil {
		if r.exclusiveMax && v >= *r.max {
			return fmt.Errorf("must be less than %v", *r.max)
		}
		if !r.exclusiveMax && v > *r.max {
			return fmt.Errorf("max %v", *r.max)
		}
	}
	if r.multipleOf != nil {
		rem := math.Abs(math.Mod(v, *r.multipleOf))
		if rem > 1e-9 && math.Abs(rem-*r.multipleOf) > 1e-9 {
			return fmt.Errorf("must be a multiple of %v", *r.multipleOf)
		}
	}
	return nil
}

func (r fieldRules) validateItems(count int) error {
	if r.required && count == 0 {
		return errors.New("required")
	}
	if r.minItems != nil && count < *r.minItems {
		return fmt.Errorf("min items %d", *r.minItems)
	}
	if r.maxItems != nil && count > *r.maxItems {
		return fmt.Errorf("max items %d", *r.maxItems)
	}
	return nil
}

// canAddItem reports whether another element fits under maxItems.
func (r fieldRules) canAddItem(count int) bool {
	return r.maxItems == nil || count < *r.maxItems
}

// needsMoreItems reports whether minItems forces another element.
func (r fieldRules) needsMoreItems(count int) bool {
	if r.minItems != nil && count < *r.minItems {
		return true
	}
	return r.required && count == 0
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
