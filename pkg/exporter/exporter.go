// Package exporter turns the current editing state into downloadable
// artifacts through the renderer registry. Exports read the state and never
// mutate it.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/renderers/html"
	"github.com/goliatone/go-formcraft/pkg/renderers/openapi"
	"github.com/goliatone/go-formcraft/pkg/renderers/react"
	"github.com/goliatone/go-formcraft/pkg/renderers/schemajson"
)

const defaultTargetName = schemajson.Name

// Transformer adjusts the exported copy of a schema before rendering.
type Transformer interface {
	Transform(ctx context.Context, schema *model.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithRegistry supplies the renderer registry. Without it the exporter builds
// one holding the schema, react, html and openapi renderers.
func WithRegistry(registry *render.Registry) Option {
	return func(e *Exporter) {
		e.registry = registry
	}
}

// WithDefaultTarget sets the target used when a request names none.
func WithDefaultTarget(name string) Option {
	return func(e *Exporter) {
		e.defaultTarget = strings.TrimSpace(name)
	}
}

// WithTransformer registers a transformer applied to the exported copy.
func WithTransformer(t Transformer) Option {
	return func(e *Exporter) {
		e.transformer = t
	}
}

// WithFileName maps a target to the file name reported in results.
func WithFileName(target, fileName string) Option {
	return func(e *Exporter) {
		if e.fileNames == nil {
			e.fileNames = make(map[string]string)
		}
		e.fileNames[target] = fileName
	}
}

// Exporter renders states through registered targets.
type Exporter struct {
	registry      *render.Registry
	defaultTarget string
	transformer   Transformer
	fileNames     map[string]string
	initialiseErr error
}

// Result is one rendered artifact.
type Result struct {
	Target      string
	ContentType string
	FileName    string
	Body        []byte
}

// Request selects the target and per-export render options.
type Request struct {
	// Target names the renderer. Empty uses the default target.
	Target        string
	RenderOptions render.RenderOptions
}

// New constructs an Exporter applying any provided options.
func New(options ...Option) *Exporter {
	e := &Exporter{
		defaultTarget: defaultTargetName,
		fileNames: map[string]string{
			schemajson.Name: schemajson.FileName,
			react.Name:      react.FileName,
			html.Name:       html.FileName,
			openapi.Name:    openapi.FileName,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.registry == nil {
		e.registry, e.initialiseErr = DefaultRegistry()
	}
	if e.defaultTarget == "" {
		e.defaultTarget = defaultTargetName
	}
	return e
}

// DefaultRegistry returns a registry with every built-in export target.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(schemajson.New())
	registry.MustRegister(openapi.New())

	component, err := react.New()
	if err != nil {
		return nil, fmt.Errorf("exporter: react renderer: %w", err)
	}
	registry.MustRegister(component)

	preview, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("exporter: html renderer: %w", err)
	}
	registry.MustRegister(preview)
	return registry, nil
}

// Targets lists the registered target names, sorted.
func (e *Exporter) Targets() []string {
	if e.registry == nil {
		return nil
	}
	return e.registry.List()
}

// ExportSchema returns a deep copy of the state's schema.
func (e *Exporter) ExportSchema(state model.State) model.Schema {
	return state.Schema.Clone()
}

// ExportReactComponent renders the component source for the state.
func (e *Exporter) ExportReactComponent(ctx context.Context, state model.State) (string, error) {
	result, err := e.Export(ctx, state, Request{Target: react.Name})
	if err != nil {
		return "", err
	}
	return string(result.Body), nil
}

// Export renders state through the requested target.
func (e *Exporter) Export(ctx context.Context, state model.State, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("exporter: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if e.initialiseErr != nil {
		return Result{}, e.initialiseErr
	}
	if e.registry == nil {
		return Result{}, errors.New("exporter: renderer registry is nil")
	}

	target := strings.ToLower(strings.TrimSpace(req.Target))
	if target == "" {
		target = e.defaultTarget
	}
	renderer, err := e.registry.Get(target)
	if err != nil {
		return Result{}, fmt.Errorf("exporter: %w", err)
	}

	schema := state.Schema.Clone()
	if e.transformer != nil {
		if err := e.transformer.Transform(ctx, &schema); err != nil {
			return Result{}, fmt.Errorf("exporter: transform schema: %w", err)
		}
	}

	body, err := renderer.Render(ctx, schema, req.RenderOptions)
	if err != nil {
		return Result{}, fmt.Errorf("exporter: render %s: %w", target, err)
	}
	return Result{
		Target:      target,
		ContentType: renderer.ContentType(),
		FileName:    e.fileNames[target],
		Body:        body,
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultExporter *Exporter
)

// Default returns the shared exporter with the built-in targets.
func Default() *Exporter {
	defaultOnce.Do(func() {
		defaultExporter = New()
	})
	return defaultExporter
}

// ExportSchema returns a deep copy of the state's schema.
func ExportSchema(state model.State) model.Schema {
	return Default().ExportSchema(state)
}

// ExportReactComponent renders the component source with the shared
// exporter.
func ExportReactComponent(ctx context.Context, state model.State) (string, error) {
	return Default().ExportReactComponent(ctx, state)
}
