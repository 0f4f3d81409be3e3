package catalog

import (
	"errors"
	"fmt"
)

// Common catalog errors.
var (
	// ErrSchemaNotFound is returned when a schema is absent from the catalog.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrSubjectNotFound is returned when a subject is absent from the catalog.
	ErrSubjectNotFound = errors.New("subject not found")
)

// InvalidSampleError reports a canonical sample that cannot seed
// generation, typically a non-object root. It is fatal for the affected
// schema's job only; sibling jobs continue.
type InvalidSampleError struct {
	Ref    Ref
	Reason string
}

// Error implements error.
func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("invalid sample for %s: %s", e.Ref, e.Reason)
}

// IsInvalidSample reports whether err wraps an InvalidSampleError.
func IsInvalidSample(err error) bool {
	var ise *InvalidSampleError
	return errors.As(err, &ise)
}
