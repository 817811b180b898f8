// Package openapi describes a form submission as an OpenAPI 3 document: one
// component schema for the payload and a POST operation accepting it. The
// payload schema carries the same constraints the runtime checker applies.
package openapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/rules"
)

const (
	// Name is the export target handled by this renderer.
	Name = "openapi"
	// FileName is the conventional download name for the document.
	FileName = "openapi.json"

	// Version is the OpenAPI version written into generated documents.
	Version = "3.0.3"
	// ExtensionNamespace prefixes the vendor extensions carrying form
	// metadata OpenAPI cannot express natively.
	ExtensionNamespace = "x-formcraft"

	defaultPath        = "/submit"
	defaultSchemaName  = "FormSubmission"
	defaultDocVersion  = "1.0.0"
	defaultOperationID = "submitForm"
)

// Option customises the generated document.
type Option func(*config)

type config struct {
	path        string
	schemaName  string
	docVersion  string
	operationID string
	serverURL   string
}

// WithPath overrides the submission path (default /submit).
func WithPath(path string) Option {
	return func(cfg *config) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		cfg.path = path
	}
}

// WithSchemaName overrides the component schema name (default FormSubmission).
func WithSchemaName(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.schemaName = name
		}
	}
}

// WithDocumentVersion sets info.version (default 1.0.0).
func WithDocumentVersion(version string) Option {
	return func(cfg *config) {
		if version = strings.TrimSpace(version); version != "" {
			cfg.docVersion = version
		}
	}
}

// WithServerURL adds a single servers entry.
func WithServerURL(url string) Option {
	return func(cfg *config) {
		cfg.serverURL = strings.TrimSpace(url)
	}
}

// Renderer emits the OpenAPI document as indented JSON.
type Renderer struct {
	cfg config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{
		path:        defaultPath,
		schemaName:  defaultSchemaName,
		docVersion:  defaultDocVersion,
		operationID: defaultOperationID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{cfg: cfg}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json; charset=utf-8"
}

// Render builds the document, validates it and encodes it.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, opts render.RenderOptions) ([]byte, error) {
	doc := r.Document(schema, opts)
	// Patterns are ECMAScript regexes evaluated by clients; a malformed one
	// is reported per submission, not as an invalid document.
	if err := doc.Validate(ctx, openapi3.DisableSchemaPatternValidation(), openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi renderer: validate document: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi renderer: encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// Document builds the OpenAPI description of schema's submission payload.
func (r *Renderer) Document(schema model.Schema, opts render.RenderOptions) *openapi3.T {
	msg := render.Messages(opts)
	payload := PayloadSchema(schema)
	ref := "#/components/schemas/" + r.cfg.schemaName

	title := strings.TrimSpace(schema.Title)
	if title == "" {
		title = "Untitled Form"
	}

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(openapi3.NewSchemaRef(ref, payload))

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())))

	op := openapi3.NewOperation()
	op.OperationID = r.cfg.operationID
	op.Summary = msg(rules.MsgSubmit, nil) + " " + title
	op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(204, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted"),
		}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Validation failed").
				WithJSONSchema(errorSchema),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       title,
			Description: schema.Description,
			Version:     r.cfg.docVersion,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(r.cfg.path, &openapi3.PathItem{Post: op})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				r.cfg.schemaName: openapi3.NewSchemaRef("", payload),
			},
		},
	}
	if r.cfg.serverURL != "" {
		doc.Servers = openapi3.Servers{{URL: r.cfg.serverURL}}
	}
	if schema.ID != "" {
		doc.Extensions = map[string]any{ExtensionNamespace + "-schema-id": schema.ID}
	}
	return doc
}
