package classifier

import (
	"context"
	"fmt"
)

// Result is the verdict returned by the external classification service for
// a single document: one or more category labels (ordered, the first one is
// the primary label) plus the salient terms used for highlighting.
type Result struct {
	Categories     []string
	ImportantTerms []string
}

// Classifier sends one document to the external classification service.
// Implementations normalize every failure mode (transport error, non-2xx
// status, malformed payload) into *Error and never retry internally; the
// retry policy belongs to the caller.
type Classifier interface {
	Classify(ctx context.Context, name, format string, content []byte) (*Result, error)
}

// Error is the single error type surfaced by classifier implementations.
// Cause carries a human-readable description of what went wrong.
type Error struct {
	Cause string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Cause)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(cause string, err error) *Error {
	return &Error{Cause: cause, Err: err}
}
