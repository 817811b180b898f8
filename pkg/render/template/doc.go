// Package template defines the template engine contract used by the text
// renderers (component and HTML preview) and hosts its adapters.
package template
