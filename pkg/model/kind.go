package model

// Kind is the closed sum type over the supported field types. Each variant
// carries only the attributes meaningful for its type, so a checkbox can
// never surface a placeholder and only choice fields expose options.
type Kind interface {
	FieldType() FieldType
	sealed()
}

// Free-text variants carry a placeholder and the length/pattern rules.
// NumberKind reads Validation.Min and Max as a numeric range.
type (
	// TextKind is a single-line text input.
	TextKind struct {
		Placeholder string
		Validation  Validation
	}
	// TextareaKind is a multi-line text input.
	TextareaKind struct {
		Placeholder string
		Validation  Validation
	}
	// PasswordKind is a masked input with a default minimum length.
	PasswordKind struct {
		Placeholder string
		Validation  Validation
	}
	// NumberKind is a numeric input.
	NumberKind struct {
		Placeholder string
		Validation  Validation
	}
)

// Formatted inputs keep only their placeholder; validation beyond the
// built-in format does not apply.
type (
	// EmailKind is checked as an email address.
	EmailKind struct{ Placeholder string }
	// TelKind is a phone number, kept as free text.
	TelKind struct{ Placeholder string }
	// URLKind is checked as an absolute URL.
	URLKind struct{ Placeholder string }
	// DateKind is a calendar date.
	DateKind struct{ Placeholder string }
	// TimeKind is a time of day.
	TimeKind struct{ Placeholder string }
	// DateTimeLocalKind is a date and time without zone.
	DateTimeLocalKind struct{ Placeholder string }
	// FileKind is an upload; any non-empty value passes.
	FileKind struct{ Placeholder string }
)

// Choice and toggle variants.
type (
	// SelectKind is a dropdown over Options.
	SelectKind struct{ Options []string }
	// RadioKind is a radio group over Options.
	RadioKind struct{ Options []string }
	// CheckboxKind is a boolean toggle with no placeholder or options.
	CheckboxKind struct{}
)

func (TextKind) FieldType() FieldType          { return FieldTypeText }
func (TextareaKind) FieldType() FieldType      { return FieldTypeTextarea }
func (PasswordKind) FieldType() FieldType      { return FieldTypePassword }
func (NumberKind) FieldType() FieldType        { return FieldTypeNumber }
func (EmailKind) FieldType() FieldType         { return FieldTypeEmail }
func (TelKind) FieldType() FieldType           { return FieldTypeTel }
func (URLKind) FieldType() FieldType           { return FieldTypeURL }
func (DateKind) FieldType() FieldType          { return FieldTypeDate }
func (TimeKind) FieldType() FieldType          { return FieldTypeTime }
func (DateTimeLocalKind) FieldType() FieldType { return FieldTypeDateTimeLocal }
func (FileKind) FieldType() FieldType          { return FieldTypeFile }
func (SelectKind) FieldType() FieldType        { return FieldTypeSelect }
func (RadioKind) FieldType() FieldType         { return FieldTypeRadio }
func (CheckboxKind) FieldType() FieldType      { return FieldTypeCheckbox }

func (TextKind) sealed()          {}
func (TextareaKind) sealed()      {}
func (PasswordKind) sealed()      {}
func (NumberKind) sealed()        {}
func (EmailKind) sealed()         {}
func (TelKind) sealed()           {}
func (URLKind) sealed()           {}
func (DateKind) sealed()          {}
func (TimeKind) sealed()          {}
func (DateTimeLocalKind) sealed() {}
func (FileKind) sealed()          {}
func (SelectKind) sealed()        {}
func (RadioKind) sealed()         {}
func (CheckboxKind) sealed()      {}

// Kind projects the field onto its variant. Unknown types project to
// TextKind without constraints, mirroring the plain string fallback of the
// generated code.
func (f Field) Kind() Kind {
	var v Validation
	if f.Validation != nil {
		v = *f.Validation
	}
	switch f.Type {
	case FieldTypeText:
		return TextKind{Placeholder: f.Placeholder, Validation: v}
	case FieldTypeTextarea:
		return TextareaKind{Placeholder: f.Placeholder, Validation: v}
	case FieldTypePassword:
		return PasswordKind{Placeholder: f.Placeholder, Validation: v}
	case FieldTypeNumber:
		return NumberKind{Placeholder: f.Placeholder, Validation: v}
	case FieldTypeEmail:
		return EmailKind{Placeholder: f.Placeholder}
	case FieldTypeTel:
		return TelKind{Placeholder: f.Placeholder}
	case FieldTypeURL:
		return URLKind{Placeholder: f.Placeholder}
	case FieldTypeDate:
		return DateKind{Placeholder: f.Placeholder}
	case FieldTypeTime:
		return TimeKind{Placeholder: f.Placeholder}
	case FieldTypeDateTimeLocal:
		return DateTimeLocalKind{Placeholder: f.Placeholder}
	case FieldTypeFile:
		return FileKind{Placeholder: f.Placeholder}
	case FieldTypeSelect:
		return SelectKind{Options: append([]string(nil), f.Options...)}
	case FieldTypeRadio:
		return RadioKind{Options: append([]string(nil), f.Options...)}
	case FieldTypeCheckbox:
		return CheckboxKind{}
	default:
		return TextKind{Placeholder: f.Placeholder}
	}
}

// PlaceholderOf returns the placeholder carried by k, if its variant has one.
func PlaceholderOf(k Kind) string {
	switch v := k.(type) {
	case TextKind:
		return v.Placeholder
	case TextareaKind:
		return v.Placeholder
	case PasswordKind:
		return v.Placeholder
	case NumberKind:
		return v.Placeholder
	case EmailKind:
		return v.Placeholder
	case TelKind:
		return v.Placeholder
	case URLKind:
		return v.Placeholder
	case DateKind:
		return v.Placeholder
	case TimeKind:
		return v.Placeholder
	case DateTimeLocalKind:
		return v.Placeholder
	case FileKind:
		return v.Placeholder
	}
	return ""
}

// OptionsOf returns the choices of select and radio variants.
func OptionsOf(k Kind) []string {
	switch v := k.(type) {
	case SelectKind:
		return v.Options
	case RadioKind:
		return v.Options
	}
	return nil
}
