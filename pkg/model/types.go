package model

// FieldType enumerates the closed set of supported inputs.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeEmail         FieldType = "email"
	FieldTypePassword      FieldType = "password"
	FieldTypeNumber        FieldType = "number"
	FieldTypeTel           FieldType = "tel"
	FieldTypeURL           FieldType = "url"
	FieldTypeDate          FieldType = "date"
	FieldTypeTime          FieldType = "time"
	FieldTypeDateTimeLocal FieldType = "datetime-local"
	FieldTypeFile          FieldType = "file"
	FieldTypeSelect        FieldType = "select"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeTextarea      FieldType = "textarea"
	FieldTypeRadio         FieldType = "radio"
)

// FieldTypes lists every supported type in palette order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypePassword,
	FieldTypeNumber,
	FieldTypeTel,
	FieldTypeURL,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeDateTimeLocal,
	FieldTypeFile,
	FieldTypeSelect,
	FieldTypeCheckbox,
	FieldTypeTextarea,
	FieldTypeRadio,
}

// Valid reports whether t belongs to the supported set.
func (t FieldType) Valid() bool {
	for _, candidate := range FieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type renders a fixed list of choices.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// Condition names the comparison applied by a conditional rule.
type Condition string

const (
	ConditionEquals    Condition = "equals"
	ConditionNotEquals Condition = "not_equals"
	ConditionContains  Condition = "contains"
	ConditionNotEmpty  Condition = "not_empty"
)

// Valid reports whether c is one of the four supported operators.
func (c Condition) Valid() bool {
	switch c {
	case ConditionEquals, ConditionNotEquals, ConditionContains, ConditionNotEmpty:
		return true
	}
	return false
}

// Validation carries the user-declared constraints of a field. Min and Max
// are lengths for textual fields and bounds for numeric ones.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// IsZero reports whether no constraint is set.
func (v Validation) IsZero() bool {
	return v.Min == nil && v.Max == nil && v.Pattern == "" && v.Message == ""
}

// Conditional ties a field's visibility to the current value of another
// field.
type Conditional struct {
	DependsOn string    `json:"dependsOn" yaml:"dependsOn"`
	Condition Condition `json:"condition" yaml:"condition"`
	Value     string    `json:"value" yaml:"value"`
}

// Field is one input of the form.
type Field struct {
	ID          string       `json:"id" yaml:"id"`
	Type        FieldType    `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation  `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// Step is a named partition of fields used in multi-step mode.
type Step struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Schema is the root aggregate exported as the portable JSON document.
type Schema struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	IsMultiStep bool    `json:"isMultiStep" yaml:"isMultiStep"`
	Steps       []Step  `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// DefaultTitle is assigned to new schemas.
const DefaultTitle = "Untitled Form"

// State is the editor state threaded through every Reducer operation.
type State struct {
	Schema        Schema `json:"schema"`
	SelectedField string `json:"selectedField,omitempty"`
	CurrentStep   int    `json:"currentStep"`
}

// FieldPatch lists the attributes UpdateField may overwrite. Nil pointers
// leave the attribute untouched; the Clear flags remove optional records.
type FieldPatch struct {
	Type             *FieldType   `json:"type,omitempty"`
	Label            *string      `json:"label,omitempty"`
	Placeholder      *string      `json:"placeholder,omitempty"`
	Required         *bool        `json:"required,omitempty"`
	Options          *[]string    `json:"options,omitempty"`
	Validation       *Validation  `json:"validation,omitempty"`
	Conditional      *Conditional `json:"conditional,omitempty"`
	ClearValidation  bool         `json:"clearValidation,omitempty"`
	ClearConditional bool         `json:"clearConditional,omitempty"`
}

// StepPatch lists the attributes UpdateStep may overwrite.
type StepPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SchemaPatch lists the schema metadata UpdateSchema may overwrite.
type SchemaPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LiveFields returns the authoritative field list for the schema's mode: the
// flat list in single-step mode, the concatenation of every step otherwise.
// The returned slice is freshly allocated.
func LiveFields(s Schema) []Field {
	if !s.IsMultiStep {
		return cloneFields(s.Fields)
	}
	var out []Field
	for _, step := range s.Steps {
		out = append(out, cloneFields(step.Fields)...)
	}
	return out
}

// FindField looks up a field by id among the live fields.
func FindField(s Schema, id string) (Field, bool) {
	for _, field := range LiveFields(s) {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}
