package visibility

import (
	"strings"

	"github.com/goliatone/go-formcraft/pkg/model"
)

// Evaluator determines whether a field should be visible given the current
// form values. Renderers accept an Evaluator so callers can swap the rules.
type Evaluator interface {
	Eval(field model.Field, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the raw submitted or
// prefilled values keyed by field id.
type Context struct {
	Values map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field model.Field, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field model.Field, ctx Context) (bool, error) {
	return fn(field, ctx)
}

// Default returns the evaluator backed by IsVisible.
func Default() Evaluator {
	return EvaluatorFunc(func(field model.Field, ctx Context) (bool, error) {
		return IsVisible(field, ctx.Values), nil
	})
}

// IsVisible reports whether field should be shown. Fields without a
// conditional are always visible.
func IsVisible(field model.Field, values map[string]any) bool {
	if field.Conditional == nil {
		return true
	}
	return Evaluate(*field.Conditional, values)
}

// Evaluate applies a single conditional against values. The dependent value
// is read raw; it does not matter whether the dependency is itself visible.
// A dependency that is missing from values, or nil, is treated as absent.
func Evaluate(cond model.Conditional, values map[string]any) bool {
	raw, present := values[cond.DependsOn]
	if raw == nil {
		present = false
	}

	switch cond.Condition {
	case model.ConditionEquals:
		return equals(raw, present, cond.Value)
	case model.ConditionNotEquals:
		return !equals(raw, present, cond.Value)
	case model.ConditionContains:
		if !present {
			return false
		}
		return strings.Contains(StringOf(raw), cond.Value)
	case model.ConditionNotEmpty:
		if !present || !truthy(raw) {
			return false
		}
		return strings.TrimSpace(StringOf(raw)) != ""
	default:
		return true
	}
}

// VisibleFields returns the fields whose conditional holds, in order.
func VisibleFields(fields []model.Field, values map[string]any) []model.Field {
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		if IsVisible(field, values) {
			out = append(out, field)
		}
	}
	return out
}

// equals is a strict comparison: only string values can match.
func equals(raw any, present bool, want string) bool {
	if !present {
		return false
	}
	s, ok := raw.(string)
	return ok && s == want
}
