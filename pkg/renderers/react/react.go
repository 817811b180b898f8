// Package react renders a schema as a standalone React component (TSX) whose
// zod schema revalidates the same rules the runtime checker applies.
package react

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	rendertemplate "github.com/goliatone/go-formcraft/pkg/render/template"
	"github.com/goliatone/go-formcraft/pkg/render/template/gotemplate"
)

const (
	// Name is the export target handled by this renderer.
	Name = "react"
	// FileName is the conventional download name for the component.
	FileName = "FormComponent.tsx"

	templateName = "templates/component.tmpl"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/component.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer turns a schema into component source text.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a component renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
			return nil, fmt.Errorf("react renderer: template %q: %w", templateName, err)
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("react renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{templates: templateRenderer}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return Name
}

// ContentType returns the MIME type for generated sources.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render produces the component source. Output is byte-identical for equal
// schemas and options.
func (r *Renderer) Render(_ context.Context, schema model.Schema, renderOptions render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("react renderer: template renderer is nil")
	}

	view := buildView(schema, renderOptions)
	rendered, err := r.templates.RenderTemplate(templateName, view)
	if err != nil {
		return nil, fmt.Errorf("react renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}
