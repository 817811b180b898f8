package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFiles embed.FS

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	defaultLanguage language.Tag
	extra           []messageFile
}

type messageFile struct {
	name string
	data []byte
}

// WithDefaultLanguage sets the language used when a locale is empty or
// unknown. English is the default.
func WithDefaultLanguage(tag language.Tag) CatalogOption {
	return func(cfg *catalogConfig) {
		cfg.defaultLanguage = tag
	}
}

// WithMessageFile adds a TOML message file. The name must follow the
// `<anything>.<lang>.toml` convention so the language can be inferred.
func WithMessageFile(name string, data []byte) CatalogOption {
	return func(cfg *catalogConfig) {
		if strings.TrimSpace(name) == "" || len(data) == 0 {
			return
		}
		cfg.extra = append(cfg.extra, messageFile{name: name, data: data})
	}
}

// Catalog is a Translator backed by go-i18n bundles loaded from TOML files.
// It ships English and Spanish messages for every id in rules.DefaultMessages.
type Catalog struct {
	bundle *i18n.Bundle
}

var _ Translator = (*Catalog)(nil)

// NewCatalog loads the embedded message files plus any extra ones.
func NewCatalog(options ...CatalogOption) (*Catalog, error) {
	cfg := &catalogConfig{defaultLanguage: language.English}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	bundle := i18n.NewBundle(cfg.defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(localeFiles, "locales")
	if err != nil {
		return nil, fmt.Errorf("render: read embedded locales: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		data, err := localeFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("render: read locale %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, entry.Name()); err != nil {
			return nil, fmt.Errorf("render: parse locale %s: %w", name, err)
		}
	}
	for _, file := range cfg.extra {
		if _, err := bundle.ParseMessageFileBytes(file.data, file.name); err != nil {
			return nil, fmt.Errorf("render: parse locale %s: %w", file.name, err)
		}
	}

	return &Catalog{bundle: bundle}, nil
}

// Translate resolves key for locale. The first map[string]any in args is
// used as template data.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil || c.bundle == nil {
		return "", ErrMissingTranslator
	}
	var data map[string]any
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			data = m
			break
		}
	}

	localizer := i18n.NewLocalizer(c.bundle, strings.TrimSpace(locale))
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return "", fmt.Errorf("render: translate %q for %q: %w", key, locale, err)
	}
	return msg, nil
}

// Locales lists the languages with loaded messages, sorted.
func (c *Catalog) Locales() []string {
	tags := c.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	sort.Strings(out)
	return out
}

// Supports reports whether messages were loaded for locale.
func (c *Catalog) Supports(locale string) bool {
	for _, tag := range c.Locales() {
		if tag == locale {
			return true
		}
	}
	return false
}
