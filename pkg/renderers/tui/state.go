package tui

import "github.com/goliatone/go-formcraft/pkg/model"

// State tracks the answers collected so far keyed by field id. Visibility of
// later fields is evaluated against it.
type State struct {
	values map[string]any
}

// NewState seeds the state with prefilled values.
func NewState(prefill map[string]any) *State {
	values := make(map[string]any, len(prefill))
	for k, v := range prefill {
		values[k] = v
	}
	return &State{values: values}
}

// Values returns the current value map.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Get returns the answer for id.
func (s *State) Get(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Set records the answer for id.
func (s *State) Set(id string, value any) {
	s.values[id] = value
}

// Clear drops the answer for id.
func (s *State) Clear(id string) {
	delete(s.values, id)
}

// Ordered returns the answers of fields in field order, skipping fields
// without an answer.
func (s *State) Ordered(fields []model.Field) []Answer {
	var out []Answer
	for _, field := range fields {
		if v, ok := s.values[field.ID]; ok {
			out = append(out, Answer{ID: field.ID, Value: v})
		}
	}
	return out
}

// Answer is one collected value.
type Answer struct {
	ID    string
	Value any
}
