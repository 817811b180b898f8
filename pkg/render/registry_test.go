package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.Schema, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("schema"))
	reg.MustRegister(namedRenderer("react"))

	if err := reg.Register(namedRenderer("React")); !errors.Is(err, render.ErrDuplicateTarget) {
		t.Fatalf("expected ErrDuplicateTarget, got %v", err)
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if err := reg.Register(namedRenderer("  ")); err == nil {
		t.Fatalf("expected blank name to fail")
	}
	if diff := cmp.Diff([]string{"react", "schema"}, reg.List()); diff != "" {
		t.Fatalf("list (-want +got):\n%s", diff)
	}
	if !reg.Has("schema") || !reg.Has(" SCHEMA ") || reg.Has("html") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := reg.Get("html"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRegistryTargets(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("schema"))
	reg.MustRegister(namedRenderer("html"))

	want := []render.Target{
		{Name: "html", ContentType: "text/plain"},
		{Name: "schema", ContentType: "text/plain"},
	}
	if diff := cmp.Diff(want, reg.Targets()); diff != "" {
		t.Fatalf("targets (-want +got):\n%s", diff)
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("schema"))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	reg.MustRegister(namedRenderer("schema"))
}
