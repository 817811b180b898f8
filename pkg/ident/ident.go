// Package ident produces the opaque identifiers assigned to fields, steps and
// schemas. Consumers must never parse the returned values.
package ident

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns identifiers that are unique for the lifetime of the
// process.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a function into a Generator.
type GeneratorFunc func() string

// NewID delegates to the underlying function.
func (fn GeneratorFunc) NewID() string {
	return fn()
}

type uuidGenerator struct{}

// Default returns the UUIDv4 backed generator used by the editor.
func Default() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Sequence emits prefix-1, prefix-2, ... and is safe for concurrent use. It
// keeps golden files stable where random identifiers would not.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence constructs a deterministic generator. An empty prefix defaults
// to "id".
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "id"
	}
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	n := s.next.Add(1)
	return s.prefix + "-" + strconv.FormatUint(n, 10)
}
