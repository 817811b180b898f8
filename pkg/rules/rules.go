// Package rules compiles form fields into a language-neutral validation
// intermediate representation and checks submitted values against it.
package rules

import "github.com/goliatone/go-formcraft/pkg/model"

// Base is the value domain a rule validates against.
type Base string

const (
	BaseString  Base = "string"
	BaseNumber  Base = "number"
	BaseEnum    Base = "enum"
	BaseBoolean Base = "boolean"
	BaseAny     Base = "any"
)

// Format names a fixed, non-configurable format check on string rules.
type Format string

const (
	FormatNone  Format = ""
	FormatEmail Format = "email"
	FormatURL   Format = "url"
)

// ConstraintKind identifies a single constraint on a rule.
type ConstraintKind string

const (
	ConstraintMinLength ConstraintKind = "minLength"
	ConstraintMaxLength ConstraintKind = "maxLength"
	ConstraintPattern   ConstraintKind = "pattern"
	ConstraintMin       ConstraintKind = "min"
	ConstraintMax       ConstraintKind = "max"
)

// DefaultPasswordMinLength applies to password fields without an explicit
// minimum.
const DefaultPasswordMinLength = 6

// Constraint is one bound or pattern. Value is set for length and range
// constraints, Pattern for pattern constraints.
type Constraint struct {
	Kind    ConstraintKind `json:"kind"`
	Value   *float64       `json:"value,omitempty"`
	Pattern string         `json:"pattern,omitempty"`
}

// Rule is the compiled validation of one field. Constraints are ordered
// minLength/min, maxLength/max, pattern. Message, when set, replaces the
// default text of every constraint failure.
type Rule struct {
	Field       string          `json:"field"`
	Type        model.FieldType `json:"type"`
	Base        Base            `json:"base"`
	Format      Format          `json:"format,omitempty"`
	Required    bool            `json:"required"`
	Constraints []Constraint    `json:"constraints,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// Constraint returns the constraint of the given kind, if present.
func (r Rule) Constraint(kind ConstraintKind) (Constraint, bool) {
	for _, c := range r.Constraints {
		if c.Kind == kind {
			return c, true
		}
	}
	return Constraint{}, false
}

// Compile derives the rule for a single field from its kind projection.
func Compile(field model.Field) Rule {
	rule := Rule{
		Field:    field.ID,
		Type:     field.Type,
		Base:     BaseString,
		Required: field.Required,
	}

	switch k := field.Kind().(type) {
	case model.TextKind:
		applyLength(&rule, k.Validation, nil)
	case model.TextareaKind:
		applyLength(&rule, k.Validation, nil)
	case model.PasswordKind:
		fallback := float64(DefaultPasswordMinLength)
		applyLength(&rule, k.Validation, &fallback)
	case model.NumberKind:
		rule.Base = BaseNumber
		if v := k.Validation.Min; v != nil {
			rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintMin, Value: floatPtr(*v)})
		}
		if v := k.Validation.Max; v != nil {
			rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintMax, Value: floatPtr(*v)})
		}
		rule.Message = k.Validation.Message
	case model.EmailKind:
		rule.Format = FormatEmail
	case model.URLKind:
		rule.Format = FormatURL
	case model.FileKind:
		rule.Base = BaseAny
	case model.SelectKind:
		rule.Base = BaseEnum
		rule.Enum = append([]string{}, k.Options...)
	case model.RadioKind:
		rule.Base = BaseEnum
		rule.Enum = append([]string{}, k.Options...)
	case model.CheckboxKind:
		rule.Base = BaseBoolean
	}
	return rule
}

// CompileAll compiles every field in order.
func CompileAll(fields []model.Field) []Rule {
	out := make([]Rule, 0, len(fields))
	for _, field := range fields {
		out = append(out, Compile(field))
	}
	return out
}

// RequiredFields lists the ids of rules marked as required, in order.
func RequiredFields(rules []Rule) []string {
	var ids []string
	for _, rule := range rules {
		if rule.Required {
			ids = append(ids, rule.Field)
		}
	}
	return ids
}

func applyLength(rule *Rule, v model.Validation, fallbackMin *float64) {
	switch {
	case v.Min != nil:
		rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintMinLength, Value: floatPtr(*v.Min)})
	case fallbackMin != nil:
		rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintMinLength, Value: floatPtr(*fallbackMin)})
	}
	if v.Max != nil {
		rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintMaxLength, Value: floatPtr(*v.Max)})
	}
	if v.Pattern != "" {
		rule.Constraints = append(rule.Constraints, Constraint{Kind: ConstraintPattern, Pattern: v.Pattern})
	}
	rule.Message = v.Message
}

func floatPtr(v float64) *float64 { return &v }
