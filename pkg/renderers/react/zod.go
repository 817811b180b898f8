package react

import (
	"strings"

	"github.com/goliatone/go-formcraft/pkg/rules"
)

// zodSchema renders rule as a zod expression. Conditional fields are always
// optional at the field level; their required check runs in the object
// refinement so hidden fields never block submission.
func zodSchema(rule rules.Rule, conditional bool, msg rules.MessageFunc) string {
	required := rule.Required && !conditional
	requiredMsg := jsString(msg(rules.MsgRequired, nil))

	switch rule.Base {
	case rules.BaseNumber:
		var b strings.Builder
		b.WriteString("z.number({ required_error: " + requiredMsg + ", invalid_type_error: " + jsString(msg(rules.MsgNumber, nil)) + " })")
		for _, c := range rule.Constraints {
			switch c.Kind {
			case rules.ConstraintMin:
				b.WriteString(".min(" + bound(c) + ", { message: " + constraintMessage(rule, rules.MsgMin, c, msg) + " })")
			case rules.ConstraintMax:
				b.WriteString(".max(" + bound(c) + ", { message: " + constraintMessage(rule, rules.MsgMax, c, msg) + " })")
			}
		}
		if !required {
			b.WriteString(".optional()")
		}
		return `z.preprocess((value) => (value === "" || value === null || value === undefined ? undefined : Number(value)), ` + b.String() + ")"

	case rules.BaseEnum:
		options := "(" + jsArray(rule.Enum) + " as string[])"
		optionMsg := jsString(msg(rules.MsgOption, nil))
		if required {
			return `z.preprocess((value) => value ?? "", z.string().min(1, { message: ` + requiredMsg + ` }).refine((value) => ` +
				options + `.includes(value), { message: ` + optionMsg + ` }))`
		}
		return `z.preprocess((value) => value ?? "", z.string().refine((value) => value === "" || ` +
			options + `.includes(value), { message: ` + optionMsg + ` }))`

	case rules.BaseBoolean:
		if required {
			return "z.boolean().refine((value) => value === true, { message: " + requiredMsg + " })"
		}
		return "z.boolean().optional()"

	case rules.BaseAny:
		if required {
			return "z.any().refine((value) => Boolean(value) && value.length !== 0, { message: " + requiredMsg + " })"
		}
		return "z.any()"
	}

	var b strings.Builder
	b.WriteString("z.string()")
	if required {
		b.WriteString(".min(1, { message: " + requiredMsg + " })")
	}
	for _, c := range rule.Constraints {
		switch c.Kind {
		case rules.ConstraintMinLength:
			b.WriteString(".min(" + bound(c) + ", { message: " + constraintMessage(rule, rules.MsgMinLength, c, msg) + " })")
		case rules.ConstraintMaxLength:
			b.WriteString(".max(" + bound(c) + ", { message: " + constraintMessage(rule, rules.MsgMaxLength, c, msg) + " })")
		}
	}
	switch rule.Format {
	case rules.FormatEmail:
		b.WriteString(".email({ message: " + jsString(msg(rules.MsgEmail, nil)) + " })")
	case rules.FormatURL:
		b.WriteString(".url({ message: " + jsString(msg(rules.MsgURL, nil)) + " })")
	}
	if c, ok := rule.Constraint(rules.ConstraintPattern); ok {
		b.WriteString(".refine((value) => matches(" + jsString(c.Pattern) + ", value), { message: " + constraintMessage(rule, rules.MsgPattern, c, msg) + " })")
	}
	if !required {
		b.WriteString(`.optional().or(z.literal(""))`)
	}
	return b.String()
}

func bound(c rules.Constraint) string {
	if c.Value == nil {
		return "0"
	}
	return rules.FormatNumber(*c.Value)
}

func constraintMessage(rule rules.Rule, id string, c rules.Constraint, msg rules.MessageFunc) string {
	if rule.Message != "" {
		return jsString(rule.Message)
	}
	var data map[string]any
	if c.Value != nil {
		data = map[string]any{"Limit": rules.FormatNumber(*c.Value)}
	}
	return jsString(msg(id, data))
}
