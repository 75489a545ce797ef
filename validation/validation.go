// Package validation checks submitted form data against a form schema.
//
// The same package backs the HTTP handlers, the check command and the
// WebAssembly build used by the browser, so every consumer reports the same
// messages for the same input.
package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mbolis/quick-form/model"
)

// Errors maps a field id to the message of its last failing check.
type Errors map[string]string

func (e Errors) OK() bool {
	return len(e) == 0
}

// Fields returns the failing field ids in schema order.
func (e Errors) Fields(schema *model.FormSchema) []string {
	ids := make([]string, 0, len(e))
	for _, f := range schema.Fields {
		if _, ok := e[f.ID]; ok {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// checker evaluates the type-scoped constraints of a present value. It
// writes into errs, so a later failure replaces an earlier one.
type checker func(errs Errors, f model.FieldDefinition, value any)

var checkers = map[model.FieldType]checker{
	model.FieldText:        checkText,
	model.FieldTextarea:    checkText,
	model.FieldNumber:      checkNumber,
	model.FieldDate:        checkDate,
	model.FieldSelect:      checkNothing,
	model.FieldMultiSelect: checkMultiSelect,
	model.FieldSwitch:      checkNothing,
}

// Validate checks data against every field of schema, in schema order. The
// result holds an entry only for fields that failed; an empty result means
// the submission is acceptable.
func Validate(data map[string]any, schema *model.FormSchema) Errors {
	errs := Errors{}
	for _, f := range schema.Fields {
		validateField(errs, f, data[f.ID])
	}
	return errs
}

func validateField(errs Errors, f model.FieldDefinition, value any) {
	if isAbsent(f.Type, value) {
		if f.Required {
			errs[f.ID] = f.Label + " is required"
		}
		return
	}

	check, ok := checkers[f.Type]
	if !ok {
		errs[f.ID] = f.Label + " has an unsupported type"
		return
	}
	check(errs, f, value)

	checkOptions(errs, f, value)
}

func isAbsent(t model.FieldType, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return t == model.FieldSwitch && !v
	}
	if items, ok := asSlice(value); ok {
		return len(items) == 0
	}
	return false
}

func checkNothing(Errors, model.FieldDefinition, any) {}

func checkText(errs Errors, f model.FieldDefinition, value any) {
	s, ok := value.(string)
	if !ok {
		errs[f.ID] = f.Label + " must be text"
		return
	}
	c := f.Validation
	if c == nil {
		return
	}

	length := textLength(s)
	if c.MinLength > 0 && length < c.MinLength {
		errs[f.ID] = fmt.Sprintf("%s must be at least %d characters", f.Label, c.MinLength)
	}
	if c.MaxLength > 0 && length > c.MaxLength {
		errs[f.ID] = fmt.Sprintf("%s must not exceed %d characters", f.Label, c.MaxLength)
	}
	if c.Regex != "" && !matchPattern(c.Regex, s) {
		errs[f.ID] = f.Label + " format is invalid"
	}
}

func checkNumber(errs Errors, f model.FieldDefinition, value any) {
	n, ok := asNumber(value)
	if !ok {
		errs[f.ID] = f.Label + " must be a valid number"
		return
	}
	c := f.Validation
	if c == nil {
		return
	}

	if c.Min != nil && n < *c.Min {
		errs[f.ID] = fmt.Sprintf("%s must be at least %s", f.Label, formatNumber(*c.Min))
	}
	if c.Max != nil && n > *c.Max {
		errs[f.ID] = fmt.Sprintf("%s must not exceed %s", f.Label, formatNumber(*c.Max))
	}
}

func checkDate(errs Errors, f model.FieldDefinition, value any) {
	d, ok := asDate(value)
	if !ok {
		errs[f.ID] = f.Label + " must be a valid date"
		return
	}
	c := f.Validation
	if c == nil || c.MinDate == "" {
		return
	}

	minDate, ok := asDate(c.MinDate)
	if !ok {
		// schema loading rejects this; never let it pass silently
		errs[f.ID] = f.Label + " must be a valid date"
		return
	}
	if d.Before(minDate) {
		errs[f.ID] = fmt.Sprintf("%s must be %s or later", f.Label, minDate.Format(time.DateOnly))
	}
}

func checkMultiSelect(errs Errors, f model.FieldDefinition, value any) {
	items, ok := asSlice(value)
	if !ok {
		errs[f.ID] = f.Label + " must be an array"
		return
	}
	c := f.Validation
	if c == nil {
		return
	}

	if c.MinSelected > 0 && len(items) < c.MinSelected {
		errs[f.ID] = fmt.Sprintf("Please select at least %d option(s)", c.MinSelected)
	}
	if c.MaxSelected > 0 && len(items) > c.MaxSelected {
		errs[f.ID] = fmt.Sprintf("Please select no more than %d option(s)", c.MaxSelected)
	}
}

func checkOptions(errs Errors, f model.FieldDefinition, value any) {
	switch f.Type {
	case model.FieldSelect:
		if !isOption(f, value) {
			errs[f.ID] = "Invalid option selected for " + f.Label
		}
	case model.FieldMultiSelect:
		items, ok := asSlice(value)
		if !ok {
			return
		}
		for _, item := range items {
			if !isOption(f, item) {
				errs[f.ID] = "Invalid options selected for " + f.Label
				return
			}
		}
	}
}

func isOption(f model.FieldDefinition, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, o := range f.Options {
		if o.Value == s {
			return true
		}
	}
	return false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
