// Package catalog provides access to a structured data-model catalog
// organized as domain → subject → schema. The generation pipeline only
// depends on the Provider interface; implementations include a local
// filesystem checkout of the catalog repositories and an in-memory
// provider for tests.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/c360studio/tripleforge/tree"
)

// Format selects the sample representation a provider serves.
type Format string

const (
	// FormatNormalized is the fully expanded representation, with one
	// object per property carrying type and value.
	FormatNormalized Format = "normalized"
	// FormatKeyValues is the compact representation, property name to
	// plain value.
	FormatKeyValues Format = "keyvalues"
)

// Formats lists all supported sample formats.
func Formats() []Format {
	return []Format{FormatNormalized, FormatKeyValues}
}

// Ref identifies one schema in the catalog.
type Ref struct {
	Domain  string `json:"domain"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

// String returns subject.name, the form used in logs and file names.
func (r Ref) String() string {
	return fmt.Sprintf("%s.%s", r.Subject, r.Name)
}

// Metadata describes the provenance of a generated sample. It is carried
// verbatim into the serialized output records.
type Metadata struct {
	Format    Format `json:"format"`
	SchemaURL string `json:"schemaUrl"`
	Domain    string `json:"domain"`
	Subject   string `json:"subject"`
	Name      string `json:"name"`
}

// NewMetadata builds sample metadata for a schema and format.
func NewMetadata(ref Ref, format Format) Metadata {
	return Metadata{
		Format:    format,
		SchemaURL: SchemaURL(ref.Subject, ref.Name),
		Domain:    ref.Domain,
		Subject:   ref.Subject,
		Name:      ref.Name,
	}
}

// PropertySet is a set of property names. Shared-property sets are
// computed once per subject and are immutable afterwards; retained sets
// are built once from configuration.
type PropertySet map[string]struct{}

// NewPropertySet builds a set from the given names, ignoring empties.
func NewPropertySet(names ...string) PropertySet {
	s := make(PropertySet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set.
func (s PropertySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersect returns the names present in both sets.
func (s PropertySet) Intersect(other PropertySet) PropertySet {
	out := PropertySet{}
	for n := range s {
		if other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Minus returns the names of s not present in other.
func (s PropertySet) Minus(other PropertySet) PropertySet {
	out := PropertySet{}
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Names returns the sorted member names.
func (s PropertySet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Provider serves canonical samples and catalog structure. All methods
// are safe for concurrent use; generation jobs share one provider.
type Provider interface {
	// CanonicalSample returns the unmodified example entity for a schema
	// in the requested format. The returned tree is a private copy the
	// caller may mutate.
	CanonicalSample(ctx context.Context, ref Ref, format Format) (tree.Tree, error)

	// SharedProperties returns the property names common to every schema
	// of the subject. Computed once per subject and cached.
	SharedProperties(ctx context.Context, subject string) (PropertySet, error)

	// ListSchemas enumerates the schemas of a subject.
	ListSchemas(ctx context.Context, subject string) ([]Ref, error)

	// ListSubjects enumerates subjects, filtered by domain when domain is
	// non-empty.
	ListSubjects(ctx context.Context, domain string) ([]string, error)
}
