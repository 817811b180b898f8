package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formcraft/pkg/render/template"
)

const defaultExtension = ".tmpl"

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	files     fs.FS
	extension string
	filters   map[string]template.FilterFunc
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.files = files
		}
	}
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		if dir = strings.TrimSpace(dir); dir != "" {
			cfg.files = os.DirFS(dir)
		}
	}
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithFilter registers a filter when the engine is built. A filter that
// already exists process-wide is left untouched.
func WithFilter(name string, fn template.FilterFunc) Option {
	return func(cfg *config) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]template.FilterFunc)
		}
		cfg.filters[strings.TrimSpace(name)] = fn
	}
}

// Engine renders pongo2 templates from an fs.FS. Output is autoescaped for
// HTML unless a template turns autoescaping off. Parsed templates are cached
// by the underlying set.
type Engine struct {
	set       *pongo2.TemplateSet
	extension string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// filterMu serialises filter registration; pongo2 keeps filters in a
// process-wide table.
var filterMu sync.Mutex

// New builds an Engine. A template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: defaultExtension}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.files == nil {
		return nil, errors.New("gotemplate: a template fs or base dir is required")
	}

	engine := &Engine{
		set:       pongo2.NewSet("formcraft", pongo2.NewFSLoader(cfg.files)),
		extension: cfg.extension,
	}
	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil && !errors.Is(err, template.ErrFilterExists) {
			return nil, err
		}
	}
	return engine, nil
}

// RenderTemplate executes the named template, appending the configured
// extension when missing, and copies the output to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.set.FromCache(path)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	rendered, err := execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// RenderString parses and executes inline template content.
func (e *Engine) RenderString(content string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	rendered, err := execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return rendered, nil
}

// RegisterFilter exposes fn to templates as name. Registration is global, so
// a second engine registering the same name gets ErrFilterExists.
func (e *Engine) RegisterFilter(name string, fn template.FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filterMu.Lock()
	defer filterMu.Unlock()
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: %w: %q", template.ErrFilterExists, name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func execute(tmpl *pongo2.Template, data any) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("convert data: %w", err)
	}
	return tmpl.Execute(ctx)
}

// toContext flattens data into plain maps, slices and scalars keyed by their
// JSON names so templates see the same member names the JSON encoding uses.
// Top-level functions stay callable from templates.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}

	top, ok := data.(map[string]any)
	if !ok {
		if c, isCtx := data.(pongo2.Context); isCtx {
			top = c
		} else {
			var decoded map[string]any
			if err := roundTrip(data, &decoded); err != nil {
				return nil, err
			}
			return pongo2.Context(decoded), nil
		}
	}

	ctx := make(pongo2.Context, len(top))
	for key, value := range top {
		if value == nil || reflect.TypeOf(value).Kind() == reflect.Func {
			ctx[key] = value
			continue
		}
		var plain any
		if err := roundTrip(value, &plain); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		ctx[key] = plain
	}
	return ctx, nil
}

func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
