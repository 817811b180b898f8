package template

import (
	"errors"
	"io"
)

// ErrFilterExists is returned when a filter name is already registered.
var ErrFilterExists = errors.New("template: filter already registered")

// FilterFunc transforms a piped value; param is nil when the filter is used
// without an argument.
type FilterFunc func(input any, param any) (any, error)

// TemplateRenderer is the seam text renderers rely on. The gotemplate
// subpackage provides the pongo2-backed implementation.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any) (string, error)
	RegisterFilter(name string, fn FilterFunc) error
}
