package gen

import (
	"fmt"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gibberish"
	"github.com/c360studio/tripleforge/tree"
)

// Canonicalization reports what Canonicalize removed and cleared.
type Canonicalization struct {
	// Excluded are the dotted paths of shared properties removed from
	// the sample.
	Excluded []string
	// Unfitting are the dotted paths of leaf values cleared as
	// gibberish.
	Unfitting []string
}

// Canonicalize produces the cleaned canonical tree for a raw sample:
// shared properties are removed at every depth unless retained, and
// gibberish leaf values are cleared to the empty string. The input tree
// is not modified.
//
// A nil raw tree is a malformed sample and returns an
// *catalog.InvalidSampleError; the caller skips that schema's job.
func Canonicalize(raw tree.Tree, ref catalog.Ref, shared, retained catalog.PropertySet, pred gibberish.Predicate) (tree.Tree, Canonicalization, error) {
	if raw == nil {
		return nil, Canonicalization{}, &catalog.InvalidSampleError{Ref: ref, Reason: "sample root is not a mapping"}
	}
	if pred == nil {
		pred = gibberish.None
	}

	out := raw.Clone()
	rec := Canonicalization{Excluded: []string{}, Unfitting: []string{}}

	// Strip shared properties first so gibberish detection only runs on
	// surviving leaves.
	for _, p := range out.Paths() {
		key := p.Key()
		if retained.Has(key) || !shared.Has(key) {
			continue
		}
		if out.Delete(p) {
			rec.Excluded = append(rec.Excluded, p.String())
		}
	}

	for _, p := range out.Paths() {
		v, ok := out.Get(p)
		if !ok {
			continue
		}
		if s, isLeaf := scalarString(v); isLeaf && pred(s) {
			out.SetValue(p, "")
			rec.Unfitting = append(rec.Unfitting, p.String())
		}
	}

	return out, rec, nil
}

// scalarString renders a scalar leaf for the gibberish predicate.
// Non-scalars report false.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64, int, int64, bool:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}
