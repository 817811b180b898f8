package model

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formcraft/pkg/ident"
)

// ReducerOption customises a Reducer.
type ReducerOption func(*Reducer)

// WithIDGenerator overrides the identifier source used for new fields, steps
// and schemas.
func WithIDGenerator(gen ident.Generator) ReducerOption {
	return func(r *Reducer) {
		if gen != nil {
			r.ids = gen
		}
	}
}

// Reducer applies edit operations to a State. It holds no state of its own
// beyond configuration and is safe for concurrent use when its generator is.
type Reducer struct {
	ids ident.Generator
}

// NewReducer constructs a Reducer backed by UUID identifiers unless
// overridden.
func NewReducer(options ...ReducerOption) *Reducer {
	r := &Reducer{ids: ident.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// NewState returns an empty single-step schema titled DefaultTitle.
func (r *Reducer) NewState() State {
	return State{
		Schema: Schema{
			ID:     r.ids.NewID(),
			Title:  DefaultTitle,
			Fields: []Field{},
		},
	}
}

// DefaultLabel is the label assigned to a new field of type t.
func DefaultLabel(t FieldType) string {
	return fmt.Sprintf("New %s field", t)
}

// PaletteField returns the field the palette drops for type t: a default
// label, not required, and two starter options for choice types.
func PaletteField(t FieldType) Field {
	field := Field{Type: t, Label: DefaultLabel(t)}
	if t.HasOptions() {
		field.Options = []string{"Option 1", "Option 2"}
	}
	return field
}

// AddField appends a copy of field with a fresh id. See AddFieldID.
func (r *Reducer) AddField(state State, field Field) State {
	next, _ := r.AddFieldID(state, field)
	return next
}

// AddFieldID appends a copy of field with a fresh id and returns the id. In
// multi-step mode with at least one step the field joins the current step
// (clamped into range); otherwise it joins the flat list. Fields with an
// unsupported type are rejected as a no-op and the returned id is empty.
func (r *Reducer) AddFieldID(state State, field Field) (State, string) {
	if !field.Type.Valid() {
		return state, ""
	}
	next := state.Clone()
	added := field.Clone()
	added.ID = r.ids.NewID()
	if added.Label == "" {
		added.Label = DefaultLabel(added.Type)
	}
	if added.Conditional != nil && added.Conditional.DependsOn == added.ID {
		added.Conditional = nil
	}

	if next.Schema.IsMultiStep && len(next.Schema.Steps) > 0 {
		idx := clampIndex(next.CurrentStep, len(next.Schema.Steps))
		step := &next.Schema.Steps[idx]
		step.Fields = append(step.Fields, added)
		return next, added.ID
	}

	next.Schema.Fields = append(next.Schema.Fields, added)
	return next, added.ID
}

// UpdateField merges patch into the flat-list field matching id. Fields
// inside steps are not reachable through this operation, even in multi-step
// mode. A conditional that would reference the field itself is ignored.
func (r *Reducer) UpdateField(state State, id string, patch FieldPatch) State {
	idx := indexOfField(state.Schema.Fields, id)
	if idx < 0 {
		return state
	}
	next := state.Clone()
	next.Schema.Fields[idx] = applyFieldPatch(next.Schema.Fields[idx], patch)
	return next
}

// RemoveField deletes the flat-list field matching id and clears the
// selection when it pointed at that field.
func (r *Reducer) RemoveField(state State, id string) State {
	idx := indexOfField(state.Schema.Fields, id)
	if idx < 0 {
		return state
	}
	next := state.Clone()
	next.Schema.Fields = append(next.Schema.Fields[:idx], next.Schema.Fields[idx+1:]...)
	if next.SelectedField == id {
		next.SelectedField = ""
	}
	return next
}

// ReorderFields moves the flat-list field activeID into the position held by
// overID, shifting the fields in between. No-op when either id is missing or
// both are equal.
func (r *Reducer) ReorderFields(state State, activeID, overID string) State {
	if activeID == overID {
		return state
	}
	from := indexOfField(state.Schema.Fields, activeID)
	to := indexOfField(state.Schema.Fields, overID)
	if from < 0 || to < 0 {
		return state
	}
	next := state.Clone()
	fields := next.Schema.Fields
	moved := fields[from]
	fields = append(fields[:from], fields[from+1:]...)
	fields = append(fields[:to], append([]Field{moved}, fields[to:]...)...)
	next.Schema.Fields = fields
	return next
}

// SelectField marks id as the selected field. An empty id clears the
// selection; unknown ids are ignored.
func (r *Reducer) SelectField(state State, id string) State {
	if id != "" {
		if _, ok := FindField(state.Schema, id); !ok && indexOfField(state.Schema.Fields, id) < 0 {
			return state
		}
	}
	next := state.Clone()
	next.SelectedField = id
	return next
}

// UpdateSchema merges title and description changes.
func (r *Reducer) UpdateSchema(state State, patch SchemaPatch) State {
	next := state.Clone()
	if patch.Title != nil {
		next.Schema.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Schema.Description = *patch.Description
	}
	return next
}

// ToggleMultiStep flips the schema mode. Enabling creates a single "Step 1"
// holding a copy of the flat fields, which stay in storage but stop being
// authoritative. Disabling rebuilds the flat list from the steps in order and
// drops the steps. The current step resets to 0 in both directions.
func (r *Reducer) ToggleMultiStep(state State) State {
	next := state.Clone()
	if next.Schema.IsMultiStep {
		fields := []Field{}
		for _, step := range next.Schema.Steps {
			fields = append(fields, step.Fields...)
		}
		next.Schema.Fields = fields
		next.Schema.Steps = nil
		next.Schema.IsMultiStep = false
	} else {
		next.Schema.Steps = []Step{{
			ID:     r.ids.NewID(),
			Title:  stepTitle(1),
			Fields: cloneFields(nonNil(next.Schema.Fields)),
		}}
		next.Schema.IsMultiStep = true
	}
	next.CurrentStep = 0
	return next
}

// AddStep appends an empty step titled after its position.
func (r *Reducer) AddStep(state State) State {
	next := state.Clone()
	next.Schema.Steps = append(next.Schema.Steps, Step{
		ID:     r.ids.NewID(),
		Title:  stepTitle(len(next.Schema.Steps) + 1),
		Fields: []Field{},
	})
	return next
}

// RemoveStep deletes the step with stepID together with its fields.
func (r *Reducer) RemoveStep(state State, stepID string) State {
	idx := indexOfStep(state.Schema.Steps, stepID)
	if idx < 0 {
		return state
	}
	next := state.Clone()
	next.Schema.Steps = append(next.Schema.Steps[:idx], next.Schema.Steps[idx+1:]...)
	return next
}

// UpdateStep merges patch into the step with stepID.
func (r *Reducer) UpdateStep(state State, stepID string, patch StepPatch) State {
	idx := indexOfStep(state.Schema.Steps, stepID)
	if idx < 0 {
		return state
	}
	next := state.Clone()
	step := &next.Schema.Steps[idx]
	if patch.Title != nil {
		step.Title = *patch.Title
	}
	if patch.Description != nil {
		step.Description = *patch.Description
	}
	return next
}

// MoveFieldToStep moves a flat-list field to the end of the step with
// stepID, dropping any copy of it held by the steps so the id stays unique.
// No-op when there are no steps, the field is not in the flat list, or the
// step does not exist.
func (r *Reducer) MoveFieldToStep(state State, fieldID, stepID string) State {
	if len(state.Schema.Steps) == 0 {
		return state
	}
	from := indexOfField(state.Schema.Fields, fieldID)
	target := indexOfStep(state.Schema.Steps, stepID)
	if from < 0 || target < 0 {
		return state
	}
	next := state.Clone()
	moved := next.Schema.Fields[from]
	next.Schema.Fields = append(next.Schema.Fields[:from], next.Schema.Fields[from+1:]...)
	for i := range next.Schema.Steps {
		step := &next.Schema.Steps[i]
		if at := indexOfField(step.Fields, fieldID); at >= 0 {
			step.Fields = append(step.Fields[:at], step.Fields[at+1:]...)
		}
	}
	step := &next.Schema.Steps[target]
	step.Fields = append(step.Fields, moved)
	return next
}

// SetCurrentStep records the active step index. Callers clamp n to the
// available steps.
func (r *Reducer) SetCurrentStep(state State, n int) State {
	next := state.Clone()
	next.CurrentStep = n
	return next
}

// LoadTemplate replaces the schema with a fresh copy of tpl. The schema,
// every step and every field receive new ids; conditionals referencing ids
// inside tpl are rewritten to the new ids. Selection and current step reset.
func (r *Reducer) LoadTemplate(state State, tpl Schema) State {
	schema := tpl.Clone()
	schema.ID = r.ids.NewID()
	if schema.Fields == nil {
		schema.Fields = []Field{}
	}

	remap := make(map[string]string)
	renumber := func(fields []Field) {
		for i := range fields {
			fresh := r.ids.NewID()
			if fields[i].ID != "" {
				remap[fields[i].ID] = fresh
			}
			fields[i].ID = fresh
		}
	}
	renumber(schema.Fields)
	for i := range schema.Steps {
		schema.Steps[i].ID = r.ids.NewID()
		if schema.Steps[i].Fields == nil {
			schema.Steps[i].Fields = []Field{}
		}
		renumber(schema.Steps[i].Fields)
	}

	relink := func(fields []Field) {
		for i := range fields {
			cond := fields[i].Conditional
			if cond == nil {
				continue
			}
			if mapped, ok := remap[cond.DependsOn]; ok {
				cond.DependsOn = mapped
			}
			if cond.DependsOn == fields[i].ID {
				fields[i].Conditional = nil
			}
		}
	}
	relink(schema.Fields)
	for i := range schema.Steps {
		relink(schema.Steps[i].Fields)
	}

	return State{Schema: schema}
}

func applyFieldPatch(field Field, patch FieldPatch) Field {
	if patch.Type != nil && patch.Type.Valid() {
		field.Type = *patch.Type
	}
	if patch.Label != nil {
		field.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		field.Placeholder = *patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = append([]string{}, (*patch.Options)...)
	}
	if patch.ClearValidation {
		field.Validation = nil
	}
	if patch.Validation != nil {
		v := patch.Validation.clone()
		field.Validation = &v
	}
	if patch.ClearConditional {
		field.Conditional = nil
	}
	if patch.Conditional != nil && patch.Conditional.DependsOn != field.ID {
		c := *patch.Conditional
		field.Conditional = &c
	}
	return field
}

func indexOfField(fields []Field, id string) int {
	if id == "" {
		return -1
	}
	for i, field := range fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

func indexOfStep(steps []Step, id string) int {
	if id == "" {
		return -1
	}
	for i, step := range steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}

func clampIndex(n, length int) int {
	if n < 0 {
		return 0
	}
	if n >= length {
		return length - 1
	}
	return n
}

func stepTitle(n int) string {
	return "Step " + strconv.Itoa(n)
}

func nonNil(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	return fields
}
