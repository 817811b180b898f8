package rules_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/rules"
)

func ptr(v float64) *float64 { return &v }

func TestCompileTable(t *testing.T) {
	cases := []struct {
		field model.Field
		base  rules.Base
		fmt   rules.Format
		kinds []rules.ConstraintKind
	}{
		{model.Field{ID: "t", Type: model.FieldTypeText, Validation: &model.Validation{Min: ptr(0), Max: ptr(10), Pattern: "x"}},
			rules.BaseString, rules.FormatNone,
			[]rules.ConstraintKind{rules.ConstraintMinLength, rules.ConstraintMaxLength, rules.ConstraintPattern}},
		{model.Field{ID: "e", Type: model.FieldTypeEmail, Validation: &model.Validation{Min: ptr(3)}},
			rules.BaseString, rules.FormatEmail, nil},
		{model.Field{ID: "p", Type: model.FieldTypePassword},
			rules.BaseString, rules.FormatNone, []rules.ConstraintKind{rules.ConstraintMinLength}},
		{model.Field{ID: "u", Type: model.FieldTypeURL}, rules.BaseString, rules.FormatURL, nil},
		{model.Field{ID: "d", Type: model.FieldTypeDate}, rules.BaseString, rules.FormatNone, nil},
		{model.Field{ID: "f", Type: model.FieldTypeFile}, rules.BaseAny, rules.FormatNone, nil},
		{model.Field{ID: "n", Type: model.FieldTypeNumber, Validation: &model.Validation{Max: ptr(5)}},
			rules.BaseNumber, rules.FormatNone, []rules.ConstraintKind{rules.ConstraintMax}},
		{model.Field{ID: "r", Type: model.FieldTypeRadio, Options: []string{"a"}}, rules.BaseEnum, rules.FormatNone, nil},
		{model.Field{ID: "c", Type: model.FieldTypeCheckbox, Validation: &model.Validation{Pattern: "x"}},
			rules.BaseBoolean, rules.FormatNone, nil},
	}

	for _, tc := range cases {
		rule := rules.Compile(tc.field)
		if rule.Base != tc.base || rule.Format != tc.fmt {
			t.Fatalf("%s: got base=%s format=%q", tc.field.Type, rule.Base, rule.Format)
		}
		var kinds []rules.ConstraintKind
		for _, c := range rule.Constraints {
			kinds = append(kinds, c.Kind)
		}
		if diff := cmp.Diff(tc.kinds, kinds); diff != "" {
			t.Fatalf("%s constraints (-want +got):\n%s", tc.field.Type, diff)
		}
	}
}

func TestPasswordDefaultMinLength(t *testing.T) {
	rule := rules.Compile(model.Field{ID: "p", Type: model.FieldTypePassword})
	c, ok := rule.Constraint(rules.ConstraintMinLength)
	if !ok || *c.Value != rules.DefaultPasswordMinLength {
		t.Fatalf("expected default min length, got %+v", rule.Constraints)
	}

	rule = rules.Compile(model.Field{ID: "p", Type: model.FieldTypePassword, Validation: &model.Validation{Min: ptr(12)}})
	c, _ = rule.Constraint(rules.ConstraintMinLength)
	if *c.Value != 12 {
		t.Fatalf("explicit min should override default, got %v", *c.Value)
	}
}

func TestSelectWithoutOptionsCompilesToEmptyEnum(t *testing.T) {
	rule := rules.Compile(model.Field{ID: "s", Type: model.FieldTypeSelect})
	if rule.Base != rules.BaseEnum || rule.Enum == nil || len(rule.Enum) != 0 {
		t.Fatalf("expected empty enumeration, got %+v", rule)
	}
	if got := rules.Check(rule, "anything"); len(got) != 1 {
		t.Fatalf("any choice should fail an empty enumeration, got %v", got)
	}
	if got := rules.Check(rule, ""); got != nil {
		t.Fatalf("optional empty select should pass, got %v", got)
	}
}

func TestRequiredEnumeration(t *testing.T) {
	fields := []model.Field{
		{ID: "a", Type: model.FieldTypeText, Required: true},
		{ID: "b", Type: model.FieldTypeCheckbox},
		{ID: "c", Type: model.FieldTypeSelect, Required: true},
		{ID: "d", Type: model.FieldTypeFile},
	}
	got := rules.RequiredFields(rules.CompileAll(fields))
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
}

func TestSharedMessage(t *testing.T) {
	rule := rules.Compile(model.Field{
		ID:         "name",
		Type:       model.FieldTypeText,
		Validation: &model.Validation{Min: ptr(3), Pattern: "^[A-Za-z]+$", Message: "Letters only"},
	})

	for _, input := range []string{"ab", "abc1"} {
		got := rules.Check(rule, input)
		if diff := cmp.Diff([]string{"Letters only"}, got); diff != "" {
			t.Fatalf("input %q (-want +got):\n%s", input, diff)
		}
	}
	if got := rules.Check(rule, "abc"); got != nil {
		t.Fatalf("valid input rejected: %v", got)
	}
}

func TestCheckDefaults(t *testing.T) {
	text := rules.Compile(model.Field{ID: "t", Type: model.FieldTypeText, Required: true,
		Validation: &model.Validation{Min: ptr(2), Max: ptr(4)}})
	number := rules.Compile(model.Field{ID: "n", Type: model.FieldTypeNumber,
		Validation: &model.Validation{Min: ptr(0), Max: ptr(10)}})
	email := rules.Compile(model.Field{ID: "e", Type: model.FieldTypeEmail})
	link := rules.Compile(model.Field{ID: "u", Type: model.FieldTypeURL})
	terms := rules.Compile(model.Field{ID: "c", Type: model.FieldTypeCheckbox, Required: true})
	upload := rules.Compile(model.Field{ID: "f", Type: model.FieldTypeFile, Required: true})

	cases := []struct {
		name  string
		rule  rules.Rule
		value any
		want  []string
	}{
		{"required empty", text, "", []string{"This field is required"}},
		{"too short", text, "a", []string{"Must be at least 2 characters"}},
		{"too long", text, "abcde", []string{"Must be at most 4 characters"}},
		{"in range", text, "abc", nil},
		{"optional number empty", number, "", nil},
		{"number below zero bound", number, -1.0, []string{"Must be at least 0"}},
		{"number from string", number, "10", nil},
		{"number above", number, 10.5, []string{"Must be at most 10"}},
		{"not a number", number, "ten", []string{"Expected a number"}},
		{"email ok", email, "ada@example.com", nil},
		{"email bad", email, "ada", []string{"Invalid email address"}},
		{"url ok", link, "https://example.com/x", nil},
		{"url bad", link, "example", []string{"Invalid URL"}},
		{"checkbox unchecked", terms, false, []string{"This field is required"}},
		{"checkbox checked", terms, true, nil},
		{"checkbox string", terms, "on", nil},
		{"file missing", upload, nil, []string{"This field is required"}},
		{"file present", upload, "report.pdf", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, rules.Check(tc.rule, tc.value)); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMalformedPatternReportedAtCheckTime(t *testing.T) {
	rule := rules.Compile(model.Field{ID: "t", Type: model.FieldTypeText, Validation: &model.Validation{Pattern: "[a-"}})
	got := rules.Check(rule, "abc")
	if len(got) != 1 || !strings.HasPrefix(got[0], "Invalid validation pattern:") {
		t.Fatalf("expected pattern failure, got %v", got)
	}
}

func TestLookaroundPatternIsUnsupported(t *testing.T) {
	for _, pattern := range []string{`(?=.*\d)\w+`, `(a)\1`} {
		rule := rules.Compile(model.Field{ID: "t", Type: model.FieldTypeText, Validation: &model.Validation{Pattern: pattern}})
		got := rules.Check(rule, "a1")
		if len(got) != 1 || !strings.HasPrefix(got[0], "Invalid validation pattern:") {
			t.Fatalf("%s: expected pattern failure, got %v", pattern, got)
		}
	}
}

func TestCheckAllSkipsHiddenFields(t *testing.T) {
	compiled := rules.CompileAll([]model.Field{
		{ID: "a", Type: model.FieldTypeText, Required: true},
		{ID: "b", Type: model.FieldTypeText, Required: true},
	})
	got := rules.CheckAll(compiled, map[string]any{}, func(id string) bool { return id != "b" })
	want := map[string][]string{"a": {"This field is required"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestCustomMessages(t *testing.T) {
	checker := rules.NewChecker(rules.WithMessages(func(id string, data map[string]any) string {
		if id == rules.MsgRequired {
			return "Obligatorio"
		}
		return rules.DefaultMessage(id, data)
	}))
	rule := rules.Compile(model.Field{ID: "a", Type: model.FieldTypeText, Required: true})
	if diff := cmp.Diff([]string{"Obligatorio"}, checker.Check(rule, nil)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRuleJSONShape(t *testing.T) {
	rule := rules.Compile(model.Field{ID: "n", Type: model.FieldTypeNumber, Required: true,
		Validation: &model.Validation{Min: ptr(0)}})
	data, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"field":"n","type":"number","base":"number","required":true,"constraints":[{"kind":"min","value":0}]}`
	if string(data) != want {
		t.Fatalf("got %s\nwant %s", data, want)
	}
}

func TestExpand(t *testing.T) {
	got := rules.Expand("at least {{.Limit}} of {{.Other}}", map[string]any{"Limit": 3})
	if got != "at least 3 of {{.Other}}" {
		t.Fatalf("got %q", got)
	}
}
