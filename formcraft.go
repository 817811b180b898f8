// Package formcraft is the top-level entry point for building form schemas
// and exporting them. It re-exports the core types and wraps the shared
// exporter so simple callers need a single import.
package formcraft

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formcraft/pkg/exporter"
	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/renderers/html"
	"github.com/goliatone/go-formcraft/pkg/renderers/react"
	"github.com/goliatone/go-formcraft/pkg/templates"
)

type (
	// State is the editor state threaded through every reducer operation.
	State = model.State
	// Schema is the exported form document.
	Schema = model.Schema
	// Field is one input of the form.
	Field = model.Field
	// RenderOptions carries the locale, translator, values and theme used by
	// export targets.
	RenderOptions = render.RenderOptions
)

// NewReducer exposes the reducer constructor from the top-level module.
func NewReducer(options ...model.ReducerOption) *model.Reducer {
	return model.NewReducer(options...)
}

// NewState returns an empty single-step form with a fresh id.
func NewState() State {
	return model.NewReducer().NewState()
}

// LoadTemplate returns a state seeded from the named canned template, with
// fresh ids for the schema, its steps and its fields.
func LoadTemplate(name string) (State, error) {
	tpl, err := templates.Get(name)
	if err != nil {
		return State{}, err
	}
	reducer := model.NewReducer()
	return reducer.LoadTemplate(reducer.NewState(), tpl.Schema), nil
}

// ExportSchema returns a deep copy of the state's schema.
func ExportSchema(state State) Schema {
	return exporter.ExportSchema(state)
}

// ExportReactComponent renders the standalone component source for state.
func ExportReactComponent(ctx context.Context, state State) (string, error) {
	return exporter.ExportReactComponent(ctx, state)
}

// Export renders state through the named target (schema, react, html or
// openapi). An empty target selects the schema document.
func Export(ctx context.Context, state State, target string, opts RenderOptions) ([]byte, error) {
	result, err := exporter.Default().Export(ctx, state, exporter.Request{
		Target:        target,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// ComponentTemplates exposes the built-in component template so callers can
// start a custom layout from it.
func ComponentTemplates() fs.FS {
	return react.TemplatesFS()
}

// PreviewTemplates exposes the built-in HTML preview template.
func PreviewTemplates() fs.FS {
	return html.TemplatesFS()
}
