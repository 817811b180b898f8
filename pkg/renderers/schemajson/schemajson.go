// Package schemajson renders a schema as the canonical, portable JSON
// document: two-space indentation, stored order, unset optional attributes
// omitted and a trailing newline.
package schemajson

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
)

// Name is the export target handled by this renderer.
const Name = "schema"

// FileName is the conventional download name for the document.
const FileName = "form-schema.json"

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent overrides the indentation string. An empty indent produces
// compact output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer serialises schemas with goccy/go-json.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the schema renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return Name
}

// ContentType returns the MIME type of the document.
func (r *Renderer) ContentType() string {
	return "application/json; charset=utf-8"
}

// Render encodes schema. Field lists are always emitted, as [] when empty.
func (r *Renderer) Render(_ context.Context, schema model.Schema, _ render.RenderOptions) ([]byte, error) {
	return Encode(schema, r.indent)
}

// Encode serialises schema without HTML escaping so labels and patterns stay
// verbatim. The output ends with a newline.
func Encode(schema model.Schema, indent string) ([]byte, error) {
	doc := normalise(schema)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("schema renderer: encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

func normalise(schema model.Schema) model.Schema {
	doc := schema.Clone()
	if doc.Fields == nil {
		doc.Fields = []model.Field{}
	}
	for i := range doc.Steps {
		if doc.Steps[i].Fields == nil {
			doc.Steps[i].Fields = []model.Field{}
		}
	}
	return doc
}
