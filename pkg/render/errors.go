package render

import "errors"

var (
	// ErrRendererNotFound is returned by Registry.Get for unknown targets.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrDuplicateTarget is returned when two renderers claim one target.
	ErrDuplicateTarget = errors.New("render: target already registered")
	// ErrMissingTranslator signals that a translation was requested without a
	// configured Translator.
	ErrMissingTranslator = errors.New("render: translator not configured")
)
