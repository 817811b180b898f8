package model

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	out := s
	out.Fields = cloneFields(s.Fields)
	if s.Steps != nil {
		out.Steps = make([]Step, len(s.Steps))
		for i, step := range s.Steps {
			out.Steps[i] = step.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := s
	out.Fields = cloneFields(s.Fields)
	return out
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string{}, f.Options...)
	}
	if f.Validation != nil {
		v := f.Validation.clone()
		out.Validation = &v
	}
	if f.Conditional != nil {
		c := *f.Conditional
		out.Conditional = &c
	}
	return out
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Schema = s.Schema.Clone()
	return out
}

func (v Validation) clone() Validation {
	out := Validation{Pattern: v.Pattern, Message: v.Message}
	if v.Min != nil {
		lo := *v.Min
		out.Min = &lo
	}
	if v.Max != nil {
		hi := *v.Max
		out.Max = &hi
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}
