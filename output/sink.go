package output

import (
	"context"
	"errors"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gen"
)

// Sink receives one job's completed batch. Implementations must be safe
// for concurrent calls from different jobs; triples within one call are
// persisted in the given order.
type Sink interface {
	WriteBatch(ctx context.Context, ref catalog.Ref, format catalog.Format, triples []gen.Triple) error
}

// Multi fans one batch out to several sinks. All sinks are attempted;
// errors are joined.
type Multi []Sink

// WriteBatch implements Sink.
func (m Multi) WriteBatch(ctx context.Context, ref catalog.Ref, format catalog.Format, triples []gen.Triple) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteBatch(ctx, ref, format, triples); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every batch. Used by dry runs and tests.
type Discard struct{}

// WriteBatch implements Sink.
func (Discard) WriteBatch(context.Context, catalog.Ref, catalog.Format, []gen.Triple) error {
	return nil
}
