package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Message ids shared by the runtime checker, the generated component and the
// localized catalogs.
const (
	MsgRequired     = "validation.required"
	MsgMinLength    = "validation.min_length"
	MsgMaxLength    = "validation.max_length"
	MsgPattern      = "validation.pattern"
	MsgBadPattern   = "validation.bad_pattern"
	MsgMin          = "validation.min"
	MsgMax          = "validation.max"
	MsgEmail        = "validation.email"
	MsgURL          = "validation.url"
	MsgNumber       = "validation.number"
	MsgOption       = "validation.option"
	MsgBoolean      = "validation.boolean"
	MsgSelectOption = "control.select_option"
	MsgSubmit       = "control.submit"
)

// DefaultMessages holds the English text for every message id. Placeholders
// use the {{.Name}} form understood by the i18n catalog.
var DefaultMessages = map[string]string{
	MsgRequired:     "This field is required",
	MsgMinLength:    "Must be at least {{.Limit}} characters",
	MsgMaxLength:    "Must be at most {{.Limit}} characters",
	MsgPattern:      "Invalid format",
	MsgBadPattern:   "Invalid validation pattern: {{.Error}}",
	MsgMin:          "Must be at least {{.Limit}}",
	MsgMax:          "Must be at most {{.Limit}}",
	MsgEmail:        "Invalid email address",
	MsgURL:          "Invalid URL",
	MsgNumber:       "Expected a number",
	MsgOption:       "Select one of the available options",
	MsgBoolean:      "Expected true or false",
	MsgSelectOption: "Select an option",
	MsgSubmit:       "Submit",
}

// MessageFunc resolves a message id with its template data.
type MessageFunc func(id string, data map[string]any) string

// DefaultMessage resolves id against DefaultMessages.
func DefaultMessage(id string, data map[string]any) string {
	text, ok := DefaultMessages[id]
	if !ok {
		return id
	}
	return Expand(text, data)
}

// Expand substitutes {{.Name}} placeholders in text. Unknown placeholders are
// left untouched.
func Expand(text string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", fmt.Sprint(data[key]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
