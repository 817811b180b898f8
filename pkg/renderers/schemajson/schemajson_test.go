package schemajson_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/renderers/schemajson"
	"github.com/goliatone/go-formcraft/pkg/testsupport"
)

func boolPtr(v bool) *bool { return &v }

func TestRenderScenarioA(t *testing.T) {
	r := testsupport.Reducer("id")
	state := r.NewState()
	state, id := r.AddFieldID(state, model.Field{Type: model.FieldTypeText, Label: "Full Name"})
	state = r.UpdateField(state, id, model.FieldPatch{Required: boolPtr(true)})

	renderer := schemajson.New()
	if renderer.Name() != "schema" || renderer.ContentType() != "application/json; charset=utf-8" {
		t.Fatalf("unexpected identity: %s %s", renderer.Name(), renderer.ContentType())
	}
	got, err := renderer.Render(testsupport.Context(), state.Schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{
  "id": "id-1",
  "title": "Untitled Form",
  "fields": [
    {
      "id": "id-2",
      "type": "text",
      "label": "Full Name",
      "required": true
    }
  ],
  "isMultiStep": false
}
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyAndMultiStep(t *testing.T) {
	got, err := schemajson.Encode(model.Schema{ID: "s", Title: "T", IsMultiStep: true,
		Steps: []model.Step{{ID: "st", Title: "Step 1"}}}, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"id":"s","title":"T","fields":[],"isMultiStep":true,"steps":[{"id":"st","title":"Step 1","fields":[]}]}` + "\n"
	if got := string(got); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestRenderKeepsTextVerbatim(t *testing.T) {
	schema := model.Schema{ID: "s", Title: `Q&A <beta>`, Fields: []model.Field{{
		ID: "f", Type: model.FieldTypeText, Label: `Say "hi"`,
		Validation: &model.Validation{Pattern: `^<\d+>$`, Min: new(float64)},
	}}}
	got, err := schemajson.New().Render(testsupport.Context(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(got, []byte(`"title": "Q&A <beta>"`)) {
		t.Fatalf("title escaped: %s", got)
	}
	if !bytes.Contains(got, []byte(`"min": 0`)) {
		t.Fatalf("zero bound dropped: %s", got)
	}

	decoded, err := model.Decode(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(schema, decoded); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testsupport.Reducer("d")
	state := r.NewState()
	for _, ft := range model.FieldTypes {
		state = r.AddField(state, model.PaletteField(ft))
	}
	renderer := schemajson.New()
	first, err := renderer.Render(testsupport.Context(), state.Schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, _ := renderer.Render(testsupport.Context(), state.Schema, render.RenderOptions{})
	if !bytes.Equal(first, second) {
		t.Fatalf("output differs between runs")
	}
	if !json.Valid(first) {
		t.Fatalf("invalid JSON: %s", first)
	}
}
