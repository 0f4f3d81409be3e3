package gen

import (
	"math/rand"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/synonym"
	"github.com/c360studio/tripleforge/tree"
)

// Mutate renames floor(ratio × property count) uniquely chosen property
// names to synonyms. Retained names are never candidates. A candidate
// whose name has no synonym is skipped without counting against the
// quota; when the vocabulary runs dry the pass under-delivers rather
// than failing.
//
// The input tree is not modified. The returned map records original
// dotted path → replacement name.
func Mutate(t tree.Tree, ratio float64, retained catalog.PropertySet, provider synonym.Provider, rng *rand.Rand) (tree.Tree, map[string]string) {
	out := t.Clone()
	modified := map[string]string{}
	if ratio <= 0 || provider == nil {
		return out, modified
	}

	quota := int(ratio * float64(out.Count()))
	if quota <= 0 {
		return out, modified
	}

	candidates := removablePaths(out, retained)
	for _, idx := range rng.Perm(len(candidates)) {
		if len(modified) == quota {
			break
		}
		p := candidates[idx]
		replacement, ok := synonym.Replace(provider, rng, p.Key())
		if !ok {
			continue
		}
		// Rename refuses name clashes and paths invalidated by an
		// earlier rename of an ancestor; both count as skips.
		if !out.Rename(p, replacement) {
			continue
		}
		modified[p.String()] = replacement
	}
	return out, modified
}
