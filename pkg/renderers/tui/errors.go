package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a required choice field has no options
	// to pick from.
	ErrNoOptions = errors.New("tui: required choice has no options")
	// ErrTooManyAttempts is returned when an answer keeps failing validation
	// past the configured attempt limit.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
