package gen

import (
	"math/rand"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/tree"
)

// Perturb removes removalCount uniquely chosen properties from the tree,
// at any depth, never touching retained names. Dotted paths listed in
// skip are not candidates either; the builder passes the gibberish-
// cleared paths here so perturbation spends its budget on properties
// that still carry signal. When removalCount exceeds the number of
// removable properties it is silently capped: an oversized depth
// parameter degrades the sample fully instead of failing the batch.
//
// The input tree is not modified. The returned paths are the removed
// ones, in selection order.
func Perturb(t tree.Tree, removalCount int, retained catalog.PropertySet, skip []string, rng *rand.Rand) (tree.Tree, []tree.Path) {
	out := t.Clone()
	if removalCount <= 0 {
		return out, nil
	}

	removable := removablePaths(out, retained)
	if len(skip) > 0 {
		skipSet := make(map[string]bool, len(skip))
		for _, s := range skip {
			skipSet[s] = true
		}
		kept := removable[:0]
		for _, p := range removable {
			if !skipSet[p.String()] {
				kept = append(kept, p)
			}
		}
		removable = kept
	}
	if removalCount > len(removable) {
		removalCount = len(removable)
	}

	selected := make([]tree.Path, 0, removalCount)
	for _, idx := range rng.Perm(len(removable))[:removalCount] {
		selected = append(selected, removable[idx])
	}
	for _, p := range selected {
		// Delete reports false when an ancestor of p was already
		// removed; the property is gone either way.
		out.Delete(p)
	}
	return out, selected
}

// removablePaths lists every property path whose name is not retained.
// A path whose subtree still contains a retained name is kept too:
// removing it would take the retained property with it.
func removablePaths(t tree.Tree, retained catalog.PropertySet) []tree.Path {
	all := t.Paths()
	removable := make([]tree.Path, 0, len(all))
	for _, p := range all {
		if retained.Has(p.Key()) {
			continue
		}
		if v, ok := t.Get(p); ok && subtreeHasRetained(v, retained) {
			continue
		}
		removable = append(removable, p)
	}
	return removable
}

// subtreeHasRetained reports whether any property anywhere under v has a
// retained name.
func subtreeHasRetained(v any, retained catalog.PropertySet) bool {
	switch val := v.(type) {
	case tree.Tree:
		return subtreeHasRetained(map[string]any(val), retained)
	case map[string]any:
		for k, child := range val {
			if retained.Has(k) || subtreeHasRetained(child, retained) {
				return true
			}
		}
	case []any:
		for _, elem := range val {
			if subtreeHasRetained(elem, retained) {
				return true
			}
		}
	}
	return false
}
