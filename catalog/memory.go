package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/c360studio/tripleforge/tree"
)

// Memory is an in-memory Provider for tests and embedding. Samples are
// registered per schema and format; shared properties are computed from
// the keyvalues samples' top-level keys, mirroring the filesystem
// provider's semantics.
type Memory struct {
	samples  map[Ref]map[Format]tree.Tree
	subjects map[string][]Ref
	domains  map[string]string
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		samples:  map[Ref]map[Format]tree.Tree{},
		subjects: map[string][]Ref{},
		domains:  map[string]string{},
	}
}

// Add registers a canonical sample for a schema and format. The same
// tree is registered for both formats when called with format "".
func (m *Memory) Add(ref Ref, format Format, sample tree.Tree) *Memory {
	if m.samples[ref] == nil {
		m.samples[ref] = map[Format]tree.Tree{}
		m.subjects[ref.Subject] = append(m.subjects[ref.Subject], ref)
		m.domains[ref.Subject] = ref.Domain
	}
	if format == "" {
		for _, f := range Formats() {
			m.samples[ref][f] = sample
		}
	} else {
		m.samples[ref][format] = sample
	}
	return m
}

// CanonicalSample implements Provider. The stored tree is cloned so the
// caller owns its copy.
func (m *Memory) CanonicalSample(_ context.Context, ref Ref, format Format) (tree.Tree, error) {
	byFormat, ok := m.samples[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrSchemaNotFound)
	}
	sample, ok := byFormat[format]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", format, ref, ErrSchemaNotFound)
	}
	if sample == nil {
		return nil, &InvalidSampleError{Ref: ref, Reason: "sample root is not an object"}
	}
	return sample.Clone(), nil
}

// SharedProperties implements Provider: the intersection of top-level
// keys across the subject's keyvalues samples.
func (m *Memory) SharedProperties(_ context.Context, subject string) (PropertySet, error) {
	refs, ok := m.subjects[subject]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", subject, ErrSubjectNotFound)
	}

	var shared PropertySet
	for _, ref := range refs {
		sample := m.samples[ref][FormatKeyValues]
		props := PropertySet{}
		for k := range sample {
			props[k] = struct{}{}
		}
		if shared == nil {
			shared = props
		} else {
			shared = shared.Intersect(props)
		}
	}
	if shared == nil {
		shared = PropertySet{}
	}
	return shared, nil
}

// ListSchemas implements Provider.
func (m *Memory) ListSchemas(_ context.Context, subject string) ([]Ref, error) {
	refs, ok := m.subjects[subject]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", subject, ErrSubjectNotFound)
	}
	out := make([]Ref, len(refs))
	copy(out, refs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListSubjects implements Provider.
func (m *Memory) ListSubjects(_ context.Context, domain string) ([]string, error) {
	var subjects []string
	for subject, d := range m.domains {
		if domain == "" || d == domain {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}
