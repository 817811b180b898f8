// Package templates supplies canned schemas used as starting points for new
// forms. Templates are YAML documents; loading one into an editing state goes
// through model.Reducer.LoadTemplate, which assigns fresh identifiers.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcraft/pkg/model"
)

// ErrTemplateNotFound is returned by Get for unknown templates.
var ErrTemplateNotFound = errors.New("templates: template not found")

// Template is one canned schema.
type Template struct {
	Slug   string       `json:"slug" yaml:"slug"`
	Name   string       `json:"name" yaml:"name"`
	Order  int          `json:"-" yaml:"order"`
	Schema model.Schema `json:"schema" yaml:"schema"`
}

// Summary describes a template without its fields.
type Summary struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Fields int    `json:"fields"`
}

// Store holds parsed templates in display order.
type Store struct {
	templates []Template
}

// LoadFS parses every .yaml/.yml file in fsys. Templates are ordered by
// their order key, then slug.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{}
	if fsys == nil {
		return store, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", p, err)
		}
		var tpl Template
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("templates: parse %s: %w", p, err)
		}

		tpl.Slug = strings.TrimSpace(tpl.Slug)
		if tpl.Slug == "" {
			tpl.Slug = strings.TrimSuffix(path.Base(p), path.Ext(p))
		}
		if prev, dup := seen[tpl.Slug]; dup {
			return fmt.Errorf("templates: duplicate template %q (files %s and %s)", tpl.Slug, prev, p)
		}
		seen[tpl.Slug] = p

		if tpl.Schema.Title == "" {
			tpl.Schema.Title = model.DefaultTitle
		}
		if tpl.Schema.Fields == nil {
			tpl.Schema.Fields = []model.Field{}
		}
		if err := tpl.Schema.Validate(); err != nil {
			return fmt.Errorf("templates: %s: %w", p, err)
		}
		store.templates = append(store.templates, tpl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(store.templates, func(i, j int) bool {
		a, b := store.templates[i], store.templates[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Slug < b.Slug
	})
	return store, nil
}

// List summarises the templates in display order.
func (s *Store) List() []Summary {
	if s == nil {
		return nil
	}
	out := make([]Summary, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, Summary{
			Slug:   tpl.Slug,
			Name:   tpl.Name,
			Title:  tpl.Schema.Title,
			Fields: len(model.LiveFields(tpl.Schema)),
		})
	}
	return out
}

// Get returns a deep copy of the template matching name. Slugs and display
// names both match, case-insensitively.
func (s *Store) Get(name string) (Template, error) {
	if s != nil {
		needle := strings.TrimSpace(name)
		for _, tpl := range s.templates {
			if strings.EqualFold(tpl.Slug, needle) || strings.EqualFold(tpl.Name, needle) {
				tpl.Schema = tpl.Schema.Clone()
				return tpl, nil
			}
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Default returns the store built from the embedded library.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = LoadFS(EmbeddedFS())
	})
	return defaultStore, defaultErr
}

// List summarises the embedded templates.
func List() []Summary {
	store, err := Default()
	if err != nil {
		return nil
	}
	return store.List()
}

// Get returns a fresh copy of an embedded template.
func Get(name string) (Template, error) {
	store, err := Default()
	if err != nil {
		return Template{}, err
	}
	return store.Get(name)
}

func isTemplateFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
