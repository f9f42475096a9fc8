// Package core — error taxonomy shared by the pipeline stages.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned when there is no fragment to convert.
	// Callers surface it as a notice, not as a crash.
	ErrNoSelection = errors.New("no selection")

	// ErrUnresolvableURL marks an href that could not be made absolute.
	// It never leaves the canonicalizer's callers: they fall back to the raw href.
	ErrUnresolvableURL = errors.New("unresolvable URL")

	// ErrRestrictedURL is returned for pages the tool refuses to read
	// (non-http schemes, extension stores).
	ErrRestrictedURL = errors.New("restricted URL")
)

// ProcessingError reports a failure while rewriting a single span of
// Markdown. The span is emitted unchanged and the pass continues.
type ProcessingError struct {
	Span string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %q: %v", e.Span, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
