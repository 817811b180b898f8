package render

import (
	"strings"

	"github.com/goliatone/go-formcraft/pkg/rules"
)

// Translator resolves a message id for a locale. The optional args carry
// template data; the first map[string]any argument is used when present.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text to use when key cannot be
// translated. err is nil when the translator returned an empty string.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Messages adapts the options' translator into a rules.MessageFunc, falling
// back to rules.DefaultMessage when a key is missing.
func Messages(opts RenderOptions) rules.MessageFunc {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return func(id string, data map[string]any) string {
		return translate(opts.Locale, id, data, opts.Translator, onMissing)
	}
}

// Message resolves a single id with opts.
func Message(opts RenderOptions, id string, data map[string]any) string {
	return Messages(opts)(id, data)
}

func translate(locale, key string, data map[string]any, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	args := []any{data}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, data)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	var data map[string]any
	if len(args) > 0 {
		data, _ = args[0].(map[string]any)
	}
	return rules.DefaultMessage(key, data)
}
