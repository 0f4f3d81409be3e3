package gen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/tree"
)

func perturbInput() tree.Tree {
	return tree.Tree{
		"id":      "urn:b:1",
		"type":    "Battery",
		"name":    "cellar battery",
		"voltage": 11.9,
		"status": map[string]any{
			"charging": true,
			"level":    0.75,
		},
	}
}

func TestPerturb_RemovesExactCount(t *testing.T) {
	retained := catalog.NewPropertySet("id", "type")
	rng := rand.New(rand.NewSource(42))

	for k := 0; k <= 5; k++ {
		out, removed := Perturb(perturbInput(), k, retained, nil, rng)

		require.Len(t, removed, k, "k=%d", k)
		seen := map[string]bool{}
		for _, p := range removed {
			assert.False(t, seen[p.String()], "duplicate excluded path %s", p)
			seen[p.String()] = true
			_, ok := out.Get(p)
			assert.False(t, ok, "excluded path %s still present", p)
		}
		assert.Contains(t, out, "id")
		assert.Contains(t, out, "type")
	}
}

func TestPerturb_CapsSilentlyWhenOversized(t *testing.T) {
	retained := catalog.NewPropertySet("id", "type")
	rng := rand.New(rand.NewSource(1))

	out, removed := Perturb(perturbInput(), 100, retained, nil, rng)

	// Removable: name, voltage, status, status.charging, status.level.
	assert.NotEmpty(t, removed)
	assert.Empty(t, removablePaths(out, retained), "fully capped tree keeps only retained properties")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "type")
}

func TestPerturb_ZeroCountIsClone(t *testing.T) {
	in := perturbInput()
	rng := rand.New(rand.NewSource(1))

	out, removed := Perturb(in, 0, catalog.PropertySet{}, nil, rng)

	assert.Empty(t, removed)
	assert.Equal(t, in, out)
	out["name"] = "changed"
	assert.Equal(t, "cellar battery", in["name"], "output must not alias input")
}

func TestPerturb_NeverRemovesParentOfRetained(t *testing.T) {
	in := tree.Tree{
		"id": "urn:b:1",
		"wrapper": map[string]any{
			"id":    "nested",
			"other": 1,
		},
	}
	retained := catalog.NewPropertySet("id")
	rng := rand.New(rand.NewSource(7))

	out, _ := Perturb(in, 10, retained, nil, rng)

	_, ok := out.Get(tree.ParsePath("wrapper.id"))
	assert.True(t, ok, "removing wrapper would take the retained id with it")
	_, ok = out.Get(tree.ParsePath("wrapper.other"))
	assert.False(t, ok)
}

func TestPerturb_SeedReproducible(t *testing.T) {
	retained := catalog.NewPropertySet("id", "type")

	_, first := Perturb(perturbInput(), 2, retained, nil, rand.New(rand.NewSource(99)))
	_, second := Perturb(perturbInput(), 2, retained, nil, rand.New(rand.NewSource(99)))

	assert.Equal(t, tree.Strings(first), tree.Strings(second))
}
