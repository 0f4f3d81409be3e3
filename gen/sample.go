// Package gen implements the sample generation core: canonicalization,
// property perturbation, synonym mutation, case reformatting and batch
// assembly of labeled training triples.
//
// Every stage consumes one property tree and produces a new one; no
// stage's output aliases a prior stage's input. All randomness flows
// through injected *rand.Rand handles so tests can pin a seed while
// production runs draw fresh entropy per job.
package gen

import (
	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/tree"
)

// MutationRecord tracks what a generation pass did to a canonical tree.
// Paths are dotted. The record is immutable once its sample is built.
type MutationRecord struct {
	// Unfitting lists paths whose values were cleared as gibberish.
	Unfitting []string `json:"unfittingProperties"`
	// Excluded lists paths removed for ambiguity: the subject-shared
	// baseline plus the depth-sized random picks.
	Excluded []string `json:"excludedProperties"`
	// Modified maps an original path to the synonym that replaced its
	// property name.
	Modified map[string]string `json:"modifiedProperties"`
}

// newMutationRecord returns a record with allocated (non-nil) members so
// empty records serialize as [] and {} rather than null.
func newMutationRecord() MutationRecord {
	return MutationRecord{
		Unfitting: []string{},
		Excluded:  []string{},
		Modified:  map[string]string{},
	}
}

// Sample is one generated entity with its mutation provenance and match
// label.
type Sample struct {
	Entity tree.Tree `json:"entity"`
	MutationRecord
	Label    float64          `json:"label"`
	Metadata catalog.Metadata `json:"sdmMetadata"`
}

// Triple is one training record: the canonical target, a positive
// variant of the same schema and a negative variant of a different
// schema. One triple per output line.
type Triple struct {
	Target   tree.Tree `json:"target"`
	Positive Sample    `json:"positive"`
	Negative Sample    `json:"negative"`
}
