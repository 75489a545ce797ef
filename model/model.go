package model

import "time"

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi-select"
	FieldSwitch      FieldType = "switch"
)

// FieldTypes lists every supported field type, in documentation order.
var FieldTypes = []FieldType{
	FieldText,
	FieldTextarea,
	FieldNumber,
	FieldDate,
	FieldSelect,
	FieldMultiSelect,
	FieldSwitch,
}

func (t FieldType) Known() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type pick from an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiSelect
}

type FormSchema struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields"`
}

// Field looks a field up by id.
func (s *FormSchema) Field(id string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

type FieldDefinition struct {
	ID          string       `json:"id" yaml:"id"`
	Type        FieldType    `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []Option     `json:"options,omitempty" yaml:"options"`
	Validation  *Constraints `json:"validation,omitempty" yaml:"validation"`
}

// OptionValues returns the allowed values of a select or multi-select field.
func (f FieldDefinition) OptionValues() []string {
	values := make([]string, len(f.Options))
	for i, o := range f.Options {
		values[i] = o.Value
	}
	return values
}

type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Constraints is the type-scoped validation bag of a field. Integer bounds
// use zero for "unset"; Min and Max are pointers because zero is a real bound.
type Constraints struct {
	MinLength   int      `json:"minLength,omitempty" yaml:"minLength"`
	MaxLength   int      `json:"maxLength,omitempty" yaml:"maxLength"`
	Regex       string   `json:"regex,omitempty" yaml:"regex"`
	Min         *float64 `json:"min,omitempty" yaml:"min"`
	Max         *float64 `json:"max,omitempty" yaml:"max"`
	MinDate     string   `json:"minDate,omitempty" yaml:"minDate"`
	MinSelected int      `json:"minSelected,omitempty" yaml:"minSelected"`
	MaxSelected int      `json:"maxSelected,omitempty" yaml:"maxSelected"`
}

type Submission struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Data      map[string]any `json:"data"`
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

const (
	SortByCreatedAt = "createdAt"
	SortByID        = "id"
	// SortByDataPrefix prefixes a field id to sort on a submitted value.
	SortByDataPrefix = "data."
)

type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}
