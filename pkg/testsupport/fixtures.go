package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcraft/pkg/ident"
	"github.com/goliatone/go-formcraft/pkg/model"
)

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "UPDATE_GOLDENS"

// Reducer returns a reducer whose identifiers are deterministic
// (`<prefix>-1`, `<prefix>-2`, ...), keeping golden output stable.
func Reducer(prefix string) *model.Reducer {
	return model.NewReducer(model.WithIDGenerator(ident.NewSequence(prefix)))
}

// MustLoadSchema decodes a JSON or YAML schema fixture.
func MustLoadSchema(t *testing.T, path string) model.Schema {
	t.Helper()

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// LoadSchema reads a schema fixture, returning an error for callers managing
// setup outside of *testing.T.
func LoadSchema(path string) (model.Schema, error) {
	if path == "" {
		return model.Schema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Schema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	schema, err := model.Decode(data)
	if err != nil {
		return model.Schema{}, fmt.Errorf("testsupport: decode schema: %w", err)
	}
	return schema, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden writes data to path when UPDATE_GOLDENS is set and
// reports whether it did, leaving the test nothing to compare.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv(UpdateEnv) == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the committed golden file at path. A
// missing golden fails the test; regenerate with UPDATE_GOLDENS=1.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s (run with %s=1 to record it): %v", path, UpdateEnv, err)
	}
	if diff := CompareGolden(string(want), string(got)); diff != "" {
		t.Fatalf("golden mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
