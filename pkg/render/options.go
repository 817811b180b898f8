package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the schema.
type RenderOptions struct {
	// Locale selects the catalog language for generated strings such as the
	// submit label and default validation messages. Empty means the
	// catalog's default language.
	Locale string
	// Values pre-populates rendered controls keyed by field id. Renderers that
	// evaluate conditionals use the same map.
	Values map[string]any
	// Translator resolves message ids. When nil, the English defaults apply.
	Translator Translator
	// Theme carries the resolved theme selection for renderers producing
	// markup. Nil renders unthemed output.
	Theme *theme.RendererConfig
	// OnMissing decides the text used when a translation cannot be resolved.
	OnMissing MissingTranslationHandler
}
