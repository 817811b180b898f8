package openapi

import (
	"math"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/rules"
)

// PayloadSchema describes the submission object: one property per live field
// in field order, required listing the unconditional required fields.
// Conditional fields are never listed as required; their visibility rule is
// kept under the x-formcraft extension.
func PayloadSchema(schema model.Schema) *openapi3.Schema {
	object := openapi3.NewObjectSchema()
	object.Title = schema.Title
	object.Properties = make(openapi3.Schemas)

	var order []string
	for _, field := range model.LiveFields(schema) {
		rule := rules.Compile(field)
		property := propertySchema(field, rule)
		object.Properties[field.ID] = openapi3.NewSchemaRef("", property)
		order = append(order, field.ID)
		if rule.Required && field.Conditional == nil {
			object.Required = append(object.Required, field.ID)
		}
	}
	if len(order) > 0 {
		object.Extensions = map[string]any{ExtensionNamespace + "-order": order}
	}
	return object
}

func propertySchema(field model.Field, rule rules.Rule) *openapi3.Schema {
	var s *openapi3.Schema
	switch rule.Base {
	case rules.BaseNumber:
		s = openapi3.NewFloat64Schema()
	case rules.BaseBoolean:
		s = openapi3.NewBoolSchema()
	case rules.BaseAny:
		s = openapi3.NewStringSchema().WithFormat("binary")
	case rules.BaseEnum:
		s = openapi3.NewStringSchema()
		if len(rule.Enum) == 0 {
			// An empty enum keyword is invalid; only the empty value passes.
			s.WithMaxLength(0)
		} else {
			values := make([]any, len(rule.Enum))
			for i, option := range rule.Enum {
				values[i] = option
			}
			s.WithEnum(values...)
		}
	default:
		s = openapi3.NewStringSchema()
	}

	switch rule.Format {
	case rules.FormatEmail:
		s.WithFormat("email")
	case rules.FormatURL:
		s.WithFormat("uri")
	}
	switch field.Type {
	case model.FieldTypeDate:
		s.WithFormat("date")
	case model.FieldTypePassword:
		s.WithFormat("password")
	}

	for _, c := range rule.Constraints {
		switch c.Kind {
		case rules.ConstraintMinLength:
			s.WithMinLength(lengthBound(math.Ceil(value(c))))
		case rules.ConstraintMaxLength:
			s.WithMaxLength(lengthBound(math.Floor(value(c))))
		case rules.ConstraintPattern:
			s.WithPattern(c.Pattern)
		case rules.ConstraintMin:
			s.WithMin(value(c))
		case rules.ConstraintMax:
			s.WithMax(value(c))
		}
	}

	s.Title = field.Label

	ext := map[string]any{"type": string(field.Type)}
	if placeholder := model.PlaceholderOf(field.Kind()); placeholder != "" {
		ext["placeholder"] = placeholder
	}
	if rule.Message != "" {
		ext["message"] = rule.Message
	}
	if cond := field.Conditional; cond != nil {
		ext["visibleWhen"] = map[string]any{
			"dependsOn": cond.DependsOn,
			"condition": string(cond.Condition),
			"value":     cond.Value,
		}
		ext["requiredWhenVisible"] = rule.Required
	}
	s.Extensions = map[string]any{ExtensionNamespace: ext}
	return s
}

func value(c rules.Constraint) float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

// lengthBound clamps a length keyword at zero; the keywords are unsigned.
func lengthBound(v float64) int64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int64(v)
}
