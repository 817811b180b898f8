// Package model defines the form schema edited by formcraft and the
// reducer-style operations that mutate it.
//
// A Schema holds an ordered flat field list and, in multi-step mode, an
// ordered list of Steps that partition the live fields. Exactly one of the
// two is authoritative at any time, selected by IsMultiStep. The Reducer
// applies edit operations to an explicit State value and returns a new State;
// inputs are never aliased by outputs, so callers may keep older States as
// snapshots. Operations referencing unknown ids are no-ops rather than errors.
//
// Fields are stored in their portable JSON shape. Consumers that need
// type-specific attributes go through Field.Kind, which projects a field onto
// a closed set of variants carrying only the attributes meaningful for its
// type.
package model
