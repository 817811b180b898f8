// Package tui fills a schema interactively in the terminal. Fields are walked
// in order, hidden fields are skipped given the answers so far, and every
// answer is revalidated with the compiled rules before moving on.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/rules"
	"github.com/goliatone/go-formcraft/pkg/visibility"
)

// Name is the renderer identifier.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.outputFormat.ContentType()
}

// Render prompts for every visible field and returns the collected values.
// opts.Values seeds defaults; answers to fields hidden by the end of the walk
// are dropped.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	w := walker{
		Renderer: r,
		state:    NewState(opts.Values),
		checker:  rules.NewChecker(rules.WithMessages(render.Messages(opts))),
		msg:      render.Messages(opts),
	}

	if schema.IsMultiStep {
		for _, step := range schema.Steps {
			if err := r.driver.Info(ctx, r.theme.StepPrefix+step.Title); err != nil {
				return nil, err
			}
			if err := w.fields(ctx, step.Fields); err != nil {
				return nil, err
			}
		}
	} else if err := w.fields(ctx, schema.Fields); err != nil {
		return nil, err
	}

	live := model.LiveFields(schema)
	for _, field := range live {
		if !visibility.IsVisible(field, w.state.Values()) {
			w.state.Clear(field.ID)
		}
	}

	values := w.state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(live, values)
}

type walker struct {
	*Renderer
	state   *State
	checker *rules.Checker
	msg     rules.MessageFunc
}

func (w walker) fields(ctx context.Context, fields []model.Field) error {
	for _, field := range fields {
		if !visibility.IsVisible(field, w.state.Values()) {
			w.state.Clear(field.ID)
			continue
		}
		if err := w.field(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (w walker) field(ctx context.Context, field model.Field) error {
	rule := rules.Compile(field)
	kind := field.Kind()

	if rule.Base == rules.BaseEnum && len(rule.Enum) == 0 {
		if rule.Required {
			return fmt.Errorf("tui: field %q: %w", field.ID, ErrNoOptions)
		}
		w.state.Clear(field.ID)
		return nil
	}

	for attempt := 1; ; attempt++ {
		value, answered, err := w.ask(ctx, field, kind, rule)
		if err != nil {
			return err
		}

		failures := w.checker.Check(rule, value)
		if len(failures) == 0 {
			if answered {
				w.state.Set(field.ID, value)
			} else {
				w.state.Clear(field.ID)
			}
			return nil
		}
		for _, failure := range failures {
			if err := w.driver.Info(ctx, w.theme.ErrorPrefix+label(field)+": "+failure); err != nil {
				return err
			}
		}
		if w.maxAttempts > 0 && attempt >= w.maxAttempts {
			return fmt.Errorf("tui: field %q: %w", field.ID, ErrTooManyAttempts)
		}
	}
}

// ask prompts once and returns the typed value. answered is false when the
// user left an optional text answer empty.
func (w walker) ask(ctx context.Context, field model.Field, kind model.Kind, rule rules.Rule) (any, bool, error) {
	message := label(field)
	if field.Required {
		message += " *"
	}
	help := model.PlaceholderOf(kind)
	current, _ := w.state.Get(field.ID)
	def := visibility.StringOf(current)

	switch kind.(type) {
	case model.CheckboxKind:
		v, err := w.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked(current), Help: help})
		return v, true, err

	case model.SelectKind, model.RadioKind:
		options := append([]string{}, rule.Enum...)
		offset := 0
		if !rule.Required {
			options = append([]string{w.msg(rules.MsgSelectOption, nil)}, options...)
			offset = 1
		}
		idx, err := w.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options[offset:], def) + offset,
			Help:         help,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < offset || idx >= len(options) {
			return "", false, nil
		}
		return options[idx], true, nil

	case model.TextareaKind:
		v, err := w.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: def, Help: help})
		return v, v != "", err

	case model.PasswordKind:
		v, err := w.driver.Password(ctx, InputConfig{Message: message, Help: help})
		return v, v != "", err
	}

	v, err := w.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
	if err != nil {
		return nil, false, err
	}
	if rule.Base == rules.BaseNumber {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, false, nil
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n, true, nil
		}
	}
	return v, v != "", nil
}

func (r *Renderer) serialize(fields []model.Field, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, visibility.StringOf(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, answer := range (&State{values: values}).Ordered(fields) {
			fmt.Fprintf(&b, "%s=%s\n", answer.ID, visibility.StringOf(answer.Value))
		}
		return []byte(b.String()), nil
	default:
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func checked(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		return typed == "on" || typed == "true"
	}
	return false
}
