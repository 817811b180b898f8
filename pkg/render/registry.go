package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Target describes one registered export target.
type Target struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// Registry maps export target names to renderers. Names are matched
// case-insensitively. The exporter and the HTTP server share one instance,
// so every method is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]Renderer)}
}

// Register adds renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	key := targetKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.targets[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateTarget, key)
	}
	r.targets[key] = renderer
	return nil
}

// MustRegister is Register for static wiring; it panics on failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer for target.
func (r *Registry) Get(target string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.targets[targetKey(target)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, target)
	}
	return renderer, nil
}

// Has reports whether target is registered.
func (r *Registry) Has(target string) bool {
	_, err := r.Get(target)
	return err == nil
}

// List returns the registered target names, sorted.
func (r *Registry) List() []string {
	targets := r.Targets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}

// Targets describes every registered target, sorted by name.
func (r *Registry) Targets() []Target {
	r.mu.RLock()
	out := make([]Target, 0, len(r.targets))
	for name, renderer := range r.targets {
		out = append(out, Target{Name: name, ContentType: renderer.ContentType()})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func targetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
