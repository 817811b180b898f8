package tui

import (
	"fmt"
	"strings"
)

// OutputFormat selects how Render serializes the collected answers.
type OutputFormat string

const (
	// OutputFormatJSON is an indented JSON object keyed by field id.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded matches a browser form submission.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText prints id=value lines in field order.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat resolves a user-supplied format name. Empty means JSON.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case "":
		return OutputFormatJSON, nil
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, nil
	}
	return "", fmt.Errorf("tui: unsupported output format %q (json, form or pretty)", raw)
}

// ContentType is the MIME type of the serialized answers.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Theme holds the prefixes printed before step titles and failed checks.
type Theme struct {
	StepPrefix  string
	ErrorPrefix string
}

// DefaultTheme is applied when WithTheme is not used.
var DefaultTheme = Theme{StepPrefix: "== ", ErrorPrefix: "! "}

// SubmitTransformer rewrites the answers right before serialization, after
// hidden fields were dropped.
type SubmitTransformer func(values map[string]any) (map[string]any, error)

// Option configures a Renderer.
type Option func(*Renderer)

// WithPromptDriver replaces the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization of the answers.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer installs fn as the last step before serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme overrides DefaultTheme.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts caps re-prompts of a field whose answer keeps failing its
// checks. Zero keeps asking until the answer passes.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
