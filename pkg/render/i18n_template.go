package render

import "strings"

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
}

// TemplateI18nFuncs returns helpers suitable for injecting into template
// data. The translate helper resolves a message id with the options' locale
// and translator:
//
//	{{ translate("control.submit") }}
//
// current_locale returns the locale the options carry.
func TemplateI18nFuncs(opts RenderOptions, cfg TemplateI18nConfig) map[string]any {
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	messages := Messages(opts)
	locale := opts.Locale

	return map[string]any{
		name: func(key string) string {
			return messages(key, nil)
		},
		"current_locale": func() string {
			return locale
		},
	}
}
