package html

import (
	"strings"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/rules"
	"github.com/goliatone/go-formcraft/pkg/visibility"
)

type formView struct {
	Lang        string        `json:"lang"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Sections    []sectionView `json:"sections"`
	Theme       themeView     `json:"theme"`
}

type sectionView struct {
	Fieldset    bool        `json:"fieldset"`
	Legend      string      `json:"legend"`
	Description string      `json:"description"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	ID             string       `json:"id"`
	Control        string       `json:"control"`
	InputType      string       `json:"input_type"`
	Label          string       `json:"label"`
	Required       bool         `json:"required"`
	Placeholder    string       `json:"placeholder"`
	Value          string       `json:"value"`
	Checked        bool         `json:"checked"`
	Options        []optionView `json:"options"`
	Attrs          []attrView   `json:"attrs"`
	Hidden         bool         `json:"hidden"`
	DependsOn      string       `json:"depends_on"`
	Condition      string       `json:"condition"`
	ConditionValue string       `json:"condition_value"`
	Errors         []string     `json:"errors"`
}

type optionView struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type attrView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func buildView(schema model.Schema, opts render.RenderOptions) formView {
	view := formView{
		Lang:        lang(opts.Locale),
		Title:       schema.Title,
		Description: sanitizeDescription(schema.Description),
		Theme:       buildThemeView(opts.Theme),
	}

	var errs map[string][]string
	if opts.Values != nil {
		checker := rules.NewChecker(rules.WithMessages(render.Messages(opts)))
		live := model.LiveFields(schema)
		byID := make(map[string]model.Field, len(live))
		for _, field := range live {
			byID[field.ID] = field
		}
		errs = checker.CheckAll(rules.CompileAll(live), opts.Values, func(id string) bool {
			return visibility.IsVisible(byID[id], opts.Values)
		})
	}

	if schema.IsMultiStep {
		for _, step := range schema.Steps {
			view.Sections = append(view.Sections, sectionView{
				Fieldset:    true,
				Legend:      step.Title,
				Description: step.Description,
				Fields:      fieldViews(step.Fields, opts.Values, errs),
			})
		}
		return view
	}
	view.Sections = []sectionView{{Fields: fieldViews(schema.Fields, opts.Values, errs)}}
	return view
}

func fieldViews(fields []model.Field, values map[string]any, errs map[string][]string) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, field := range fields {
		out = append(out, newFieldView(field, values, errs[field.ID]))
	}
	return out
}

func newFieldView(field model.Field, values map[string]any, errs []string) fieldView {
	kind := field.Kind()
	raw, present := values[field.ID]
	current := ""
	if present {
		current = visibility.StringOf(raw)
	}

	view := fieldView{
		ID:          field.ID,
		Label:       field.Label,
		Required:    field.Required,
		Placeholder: model.PlaceholderOf(kind),
		Errors:      errs,
	}
	if field.Conditional != nil {
		view.DependsOn = field.Conditional.DependsOn
		view.Condition = string(field.Conditional.Condition)
		view.ConditionValue = field.Conditional.Value
		view.Hidden = !visibility.IsVisible(field, values)
	}

	switch kind.(type) {
	case model.TextareaKind:
		view.Control = "textarea"
		view.Value = current
	case model.SelectKind:
		view.Control = "select"
	case model.RadioKind:
		view.Control = "radio"
	case model.CheckboxKind:
		view.Control = "checkbox"
		view.Checked = checked(raw)
	case model.FileKind, model.PasswordKind:
		view.Control = "input"
		view.InputType = string(kind.FieldType())
	default:
		view.Control = "input"
		view.InputType = string(kind.FieldType())
		view.Value = current
	}
	for _, option := range model.OptionsOf(kind) {
		view.Options = append(view.Options, optionView{Value: option, Selected: present && option == current})
	}
	view.Attrs = constraintAttrs(rules.Compile(field))
	return view
}

// constraintAttrs maps compiled constraints onto native HTML attributes so
// the preview enforces the same bounds in the browser.
func constraintAttrs(rule rules.Rule) []attrView {
	var attrs []attrView
	for _, c := range rule.Constraints {
		switch c.Kind {
		case rules.ConstraintMinLength:
			attrs = append(attrs, attrView{Name: "minlength", Value: bound(c)})
		case rules.ConstraintMaxLength:
			attrs = append(attrs, attrView{Name: "maxlength", Value: bound(c)})
		case rules.ConstraintPattern:
			attrs = append(attrs, attrView{Name: "pattern", Value: c.Pattern})
		case rules.ConstraintMin:
			attrs = append(attrs, attrView{Name: "min", Value: bound(c)})
		case rules.ConstraintMax:
			attrs = append(attrs, attrView{Name: "max", Value: bound(c)})
		}
	}
	if rule.Message != "" && len(attrs) > 0 {
		attrs = append(attrs, attrView{Name: "title", Value: rule.Message})
	}
	return attrs
}

func bound(c rules.Constraint) string {
	if c.Value == nil {
		return "0"
	}
	return rules.FormatNumber(*c.Value)
}

func checked(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "true":
			return true
		}
	}
	return false
}

func lang(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "en"
	}
	return locale
}
