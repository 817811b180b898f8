package react

import (
	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/rules"
)

type componentView struct {
	Name            string        `json:"name"`
	TitleComment    string        `json:"title_comment"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Entries         []schemaEntry `json:"entries"`
	Refinements     []refinement  `json:"refinements"`
	Sections        []sectionView `json:"sections"`
	UsesPattern     bool          `json:"uses_pattern"`
	UsesConditional bool          `json:"uses_conditional"`
	Submit          string        `json:"submit"`
}

type schemaEntry struct {
	Key    string `json:"key"`
	Schema string `json:"schema"`
}

type refinement struct {
	Key       string `json:"key"`
	Condition string `json:"condition"`
	Message   string `json:"message"`
}

type sectionView struct {
	Fieldset    bool        `json:"fieldset"`
	Legend      string      `json:"legend"`
	Description string      `json:"description"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	Key          string       `json:"key"`
	HTMLID       string       `json:"html_id"`
	Control      string       `json:"control"`
	InputType    string       `json:"input_type"`
	Label        string       `json:"label"`
	Required     bool         `json:"required"`
	Placeholder  string       `json:"placeholder"`
	Options      []optionView `json:"options"`
	SelectPrompt string       `json:"select_prompt"`
	Visible      string       `json:"visible"`
}

type optionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// buildView assembles the template data for schema. Every validation entry
// derives from rules.Compile; markup derives from the field's kind.
func buildView(schema model.Schema, opts render.RenderOptions) componentView {
	msg := render.Messages(opts)
	view := componentView{
		Name:         ComponentName(schema.Title),
		TitleComment: blockComment(schema.Title),
		Title:        jsxText(schema.Title),
		Submit:       jsxText(msg(rules.MsgSubmit, nil)),
	}
	if schema.Description != "" {
		view.Description = jsxText(schema.Description)
	}

	for _, field := range model.LiveFields(schema) {
		rule := rules.Compile(field)
		conditional := field.Conditional != nil
		view.Entries = append(view.Entries, schemaEntry{
			Key:    jsString(field.ID),
			Schema: zodSchema(rule, conditional, msg),
		})
		if conditional {
			view.UsesConditional = true
			if rule.Required {
				view.Refinements = append(view.Refinements, refinement{
					Key:       jsString(field.ID),
					Condition: visibilityExpr("data", *field.Conditional) + " && isBlank(data[" + jsString(field.ID) + "])",
					Message:   jsString(msg(rules.MsgRequired, nil)),
				})
			}
		}
		if _, ok := rule.Constraint(rules.ConstraintPattern); ok {
			view.UsesPattern = true
		}
	}

	if schema.IsMultiStep {
		for _, step := range schema.Steps {
			section := sectionView{
				Fieldset: true,
				Legend:   jsxText(step.Title),
				Fields:   fieldViews(step.Fields, msg),
			}
			if step.Description != "" {
				section.Description = jsxText(step.Description)
			}
			view.Sections = append(view.Sections, section)
		}
	} else {
		view.Sections = []sectionView{{Fields: fieldViews(schema.Fields, msg)}}
	}
	return view
}

func fieldViews(fields []model.Field, msg rules.MessageFunc) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, field := range fields {
		out = append(out, newFieldView(field, msg))
	}
	return out
}

func newFieldView(field model.Field, msg rules.MessageFunc) fieldView {
	kind := field.Kind()
	view := fieldView{
		Key:      jsString(field.ID),
		HTMLID:   jsxText(field.ID),
		Label:    jsxText(field.Label),
		Required: field.Required,
	}
	if placeholder := model.PlaceholderOf(kind); placeholder != "" {
		view.Placeholder = jsxText(placeholder)
	}
	if field.Conditional != nil {
		view.Visible = visibilityExpr("values", *field.Conditional)
	}

	switch kind.(type) {
	case model.TextareaKind:
		view.Control = "textarea"
	case model.SelectKind:
		view.Control = "select"
		view.SelectPrompt = jsxText(msg(rules.MsgSelectOption, nil))
	case model.RadioKind:
		view.Control = "radio"
	case model.CheckboxKind:
		view.Control = "checkbox"
	default:
		view.Control = "input"
		view.InputType = string(kind.FieldType())
	}
	for _, option := range model.OptionsOf(kind) {
		view.Options = append(view.Options, optionView{Value: jsxText(option), Label: jsxText(option)})
	}
	return view
}

func visibilityExpr(source string, cond model.Conditional) string {
	return "isVisible(" + source + "[" + jsString(cond.DependsOn) + "], " +
		jsString(string(cond.Condition)) + ", " + jsString(cond.Value) + ")"
}
