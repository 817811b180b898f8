package react_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/renderers/react"
	"github.com/goliatone/go-formcraft/pkg/templates"
	"github.com/goliatone/go-formcraft/pkg/testsupport"
)

func ptr[T any](v T) *T { return &v }

func newRenderer(t *testing.T) *react.Renderer {
	t.Helper()
	r, err := react.New()
	if err != nil {
		t.Fatalf("react.New: %v", err)
	}
	return r
}

func renderSchema(t *testing.T, schema model.Schema, opts render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(testsupport.Context(), schema, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("output missing %q\n%s", fragment, output)
		}
	}
}

func TestRendererContract(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "react" {
		t.Fatalf("unexpected renderer name: %s", r.Name())
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", r.ContentType())
	}
}

func TestComponentStructure(t *testing.T) {
	schema := model.Schema{
		ID:          "s",
		Title:       "Contact Us",
		Description: "Get in touch",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Full Name", Required: true},
			{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Placeholder: "you@example.com"},
		},
	}
	out := renderSchema(t, schema, render.RenderOptions{})

	assertContains(t, out,
		"npm install react-hook-form @hookform/resolvers zod",
		`import { zodResolver } from "@hookform/resolvers/zod";`,
		"export default function ContactUsForm() {",
		`"name": z.string().min(1, { message: "This field is required" }),`,
		`"email": z.string().email({ message: "Invalid email address" }).optional().or(z.literal("")),`,
		`{...register("name")}`,
		`placeholder={"you@example.com"}`,
		`<h2 className="text-2xl font-bold">{"Contact Us"}</h2>`,
		`<p className="text-gray-600">{"Get in touch"}</p>`,
		`aria-required={true}`,
		`const onSubmit = (data: FormData) => {`,
		`{"Submit"}`,
	)
	if strings.Contains(out, "isVisible") || strings.Contains(out, "matches(") {
		t.Fatalf("unused helpers emitted:\n%s", out)
	}
}

func TestComponentName(t *testing.T) {
	cases := map[string]string{
		"Contact Us":      "ContactUsForm",
		"  Product\tOrder": "ProductOrderForm",
		"":                "UntitledForm",
		"   ":             "UntitledForm",
		"2024 Survey":     "_2024SurveyForm",
		"Q&A Form":        "QAFormForm",
	}
	for title, want := range cases {
		if got := react.ComponentName(title); got != want {
			t.Fatalf("ComponentName(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestSelectWithoutOptions(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "Pick", Fields: []model.Field{
		{ID: "s", Type: model.FieldTypeSelect, Label: "Choice"},
	}}, render.RenderOptions{})

	assertContains(t, out,
		`<option value="">{"Select an option"}</option>`,
		`([] as string[]).includes(value)`,
	)
	if strings.Contains(out, "z.enum(") {
		t.Fatalf("empty enumeration must not use z.enum:\n%s", out)
	}
	if strings.Count(out, "<option") != 1 {
		t.Fatalf("expected only the prompt option:\n%s", out)
	}
}

func TestSharedMessageAndPattern(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "T", Fields: []model.Field{{
		ID: "n", Type: model.FieldTypeText, Label: "Name",
		Validation: &model.Validation{Min: ptr(3.0), Pattern: `^[A-Za-z]+$`, Message: "Letters only"},
	}}}, render.RenderOptions{})

	assertContains(t, out,
		`.min(3, { message: "Letters only" })`,
		`.refine((value) => matches("^[A-Za-z]+$", value), { message: "Letters only" })`,
		"new RegExp(source)",
	)
}

func TestMalformedPatternDoesNotBreakGeneration(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "T", Fields: []model.Field{{
		ID: "n", Type: model.FieldTypeText, Validation: &model.Validation{Pattern: `[a-`},
	}}}, render.RenderOptions{})
	assertContains(t, out, `matches("[a-", value)`, "} catch {")
}

func TestTextIsEscapedForTarget(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "Form", Fields: []model.Field{{
		ID: "q", Type: model.FieldTypeRadio, Label: `Say "hi" <now> {x}`,
		Options: []string{`A\B`, "line\nbreak"},
	}}}, render.RenderOptions{})

	assertContains(t, out,
		`{"Say \"hi\" <now> {x}"}`,
		`value={"A\\B"}`,
		`<span>{"line\nbreak"}</span>`,
		`role="radiogroup"`,
	)
}

func TestKindsDropMeaninglessAttributes(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "T", Fields: []model.Field{
		{ID: "c", Type: model.FieldTypeCheckbox, Label: "Agree", Placeholder: "ignored", Required: true,
			Validation: &model.Validation{Pattern: "x"}},
		{ID: "n", Type: model.FieldTypeNumber, Label: "Qty", Validation: &model.Validation{Min: ptr(0.0), Max: ptr(9.0)}},
		{ID: "f", Type: model.FieldTypeFile, Label: "Upload", Required: true},
	}}, render.RenderOptions{})

	if strings.Contains(out, "ignored") {
		t.Fatalf("checkbox placeholder leaked:\n%s", out)
	}
	assertContains(t, out,
		`"c": z.boolean().refine((value) => value === true, { message: "This field is required" }),`,
		`.min(0, { message: "Must be at least 0" }).max(9, { message: "Must be at most 9" }).optional())`,
		`"f": z.any().refine((value) => Boolean(value) && value.length !== 0`,
		`type="file"`,
		`type="checkbox"`,
	)
}

func TestConditionalFields(t *testing.T) {
	out := renderSchema(t, model.Schema{Title: "T", Fields: []model.Field{
		{ID: "a", Type: model.FieldTypeSelect, Label: "Topic", Options: []string{"Sales", "Other"}},
		{ID: "b", Type: model.FieldTypeText, Label: "Details", Required: true,
			Conditional: &model.Conditional{DependsOn: "a", Condition: model.ConditionEquals, Value: "Other"}},
	}}, render.RenderOptions{})

	assertContains(t, out,
		`"b": z.string().optional().or(z.literal("")),`,
		`if (isVisible(data["a"], "equals", "Other") && isBlank(data["b"])) {`,
		`{ isVisible(values["a"], "equals", "Other") && (`,
		"shouldUnregister: true,",
		"const values = watch();",
	)
}

func TestMultiStepFieldsets(t *testing.T) {
	schema := model.Schema{Title: "Wizard", IsMultiStep: true,
		Fields: []model.Field{{ID: "stale", Type: model.FieldTypeText, Label: "Stale"}},
		Steps: []model.Step{
			{ID: "s1", Title: "Basics", Description: "Who you are",
				Fields: []model.Field{{ID: "a", Type: model.FieldTypeText, Label: "Name"}}},
			{ID: "s2", Title: "Details", Fields: []model.Field{{ID: "b", Type: model.FieldTypeTextarea, Label: "Bio"}}},
		},
	}
	out := renderSchema(t, schema, render.RenderOptions{})

	assertContains(t, out,
		`<legend className="text-lg font-semibold">{"Basics"}</legend>`,
		`<p className="text-sm text-gray-500">{"Who you are"}</p>`,
		`<legend className="text-lg font-semibold">{"Details"}</legend>`,
		`"b": z.string().optional()`,
		"<textarea",
	)
	if strings.Count(out, "<fieldset") != 2 {
		t.Fatalf("expected two fieldsets:\n%s", out)
	}
	if strings.Contains(out, "stale") {
		t.Fatalf("flat fields must not render in multi-step mode:\n%s", out)
	}
}

func TestLocalizedStrings(t *testing.T) {
	catalog, err := render.NewCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	out := renderSchema(t, model.Schema{Title: "T", Fields: []model.Field{
		{ID: "s", Type: model.FieldTypeSelect, Label: "Plan", Required: true, Options: []string{"A"}},
	}}, render.RenderOptions{Locale: "es", Translator: catalog})

	assertContains(t, out, `{"Selecciona una opción"}`, `{"Enviar"}`, `"Este campo es obligatorio"`)
}

func TestDeterministicGoldenPerTemplate(t *testing.T) {
	for _, summary := range templates.List() {
		t.Run(summary.Slug, func(t *testing.T) {
			tpl, err := templates.Get(summary.Slug)
			if err != nil {
				t.Fatalf("get template: %v", err)
			}
			r := testsupport.Reducer(summary.Slug)
			state := r.LoadTemplate(r.NewState(), tpl.Schema)

			renderer := newRenderer(t)
			first, err := renderer.Render(testsupport.Context(), state.Schema, render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			second, err := renderer.Render(testsupport.Context(), state.Schema, render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Fatalf("output is not deterministic")
			}
			testsupport.AssertGolden(t, filepath.Join("testdata", summary.Slug+".golden.tsx"), first)
		})
	}
}
