package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gibberish"
	"github.com/c360studio/tripleforge/tree"
)

func builderCatalog() *catalog.Memory {
	battery := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	status := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "BatteryStatus"}
	weather := catalog.Ref{Domain: "Environment", Subject: "dataModel.Weather", Name: "WeatherObserved"}

	return catalog.NewMemory().
		Add(battery, "", tree.Tree{
			"id":      "urn:b:1",
			"type":    "Battery",
			"name":    "cellar battery",
			"voltage": 11.9,
			"level":   0.5,
		}).
		Add(status, "", tree.Tree{
			"id":       "urn:s:1",
			"type":     "BatteryStatus",
			"charging": true,
			"cycles":   12,
		}).
		Add(weather, "", tree.Tree{
			"id":          "urn:w:1",
			"type":        "WeatherObserved",
			"temperature": 21.5,
		})
}

func newTestBuilder(t *testing.T, opts Options) *Builder {
	t.Helper()
	b, err := NewBuilder(builderCatalog(), nil, gibberish.None, nil, opts, nil)
	require.NoError(t, err)
	return b
}

func TestBuilder_BatchSizeLaw(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 5
	opts.Depth = 3
	opts.Seed = 1
	b := newTestBuilder(t, opts)

	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)

	assert.Len(t, triples, 5*(3+1))
}

func TestBuilder_DepthAscendingOrderAndMonotoneLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 2
	opts.Depth = 3
	opts.Seed = 7
	b := newTestBuilder(t, opts)

	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)
	require.Len(t, triples, 8)

	scorer := DefaultScorer()
	for i, tr := range triples {
		d := i / opts.Iterations
		assert.Equal(t, scorer.Positive(d), tr.Positive.Label, "triple %d is at depth %d", i, d)
		assert.Len(t, tr.Positive.Excluded, d, "depth %d removes d extra properties", d)
	}

	// Positive labels never increase across the batch.
	for i := 1; i < len(triples); i++ {
		assert.LessOrEqual(t, triples[i].Positive.Label, triples[i-1].Positive.Label)
	}
}

func TestBuilder_NegativeIsDifferentSchema(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 4
	opts.Depth = 1
	opts.Seed = 11
	b := newTestBuilder(t, opts)

	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)

	scorer := DefaultScorer()
	for _, tr := range triples {
		assert.Equal(t, "BatteryStatus", tr.Negative.Metadata.Name)
		assert.Equal(t, scorer.Negative(0, true), tr.Negative.Label, "same-subject negative label")
		assert.Less(t, tr.Negative.Label, tr.Positive.Label)
	}
}

func TestBuilder_EndToEndScenario(t *testing.T) {
	// Canonical sample {id, type, name, voltage, unfittingField} with
	// shared = retained = {id, type}: canonicalization clears only the
	// gibberish field, depth-1 perturbation removes exactly one of
	// name/voltage.
	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Device", Name: "Device"}
	sibling := catalog.Ref{Domain: "Energy", Subject: "dataModel.Device", Name: "DeviceModel"}
	provider := catalog.NewMemory().
		Add(ref, "", tree.Tree{
			"id":             "urn:d:1",
			"type":           "Device",
			"name":           "meter",
			"voltage":        230.0,
			"unfittingField": "asdkjh123",
		}).
		Add(sibling, "", tree.Tree{
			"id":       "urn:m:1",
			"type":     "DeviceModel",
			"brand":    "acme",
			"category": "meter",
		})

	pred := func(v string) bool { return v == "asdkjh123" }
	opts := DefaultOptions()
	opts.Iterations = 1
	opts.Depth = 1
	opts.Seed = 3
	b, err := NewBuilder(provider, nil, pred, nil, opts, nil)
	require.NoError(t, err)

	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)
	require.Len(t, triples, 2)

	// Depth 0: nothing removed beyond canonicalization.
	d0 := triples[0].Positive
	assert.Equal(t, []string{"unfittingField"}, d0.Unfitting)
	assert.Empty(t, d0.Excluded)
	cleared, _ := d0.Entity.Get(tree.ParsePath("unfittingField"))
	assert.Equal(t, "", cleared)

	// Depth 1: exactly one of name/voltage removed; id and type retained.
	d1 := triples[1].Positive
	assert.Equal(t, []string{"unfittingField"}, d1.Unfitting)
	require.Len(t, d1.Excluded, 1)
	assert.Contains(t, []string{"name", "voltage"}, d1.Excluded[0])
	assert.Contains(t, d1.Entity, "id")
	assert.Contains(t, d1.Entity, "type")

	// Target is the canonical tree, no perturbation.
	assert.Contains(t, triples[1].Target, "name")
	assert.Contains(t, triples[1].Target, "voltage")
}

func TestBuilder_InvalidSampleFailsBatch(t *testing.T) {
	ref := catalog.Ref{Subject: "dataModel.Broken", Name: "Broken"}
	sibling := catalog.Ref{Subject: "dataModel.Broken", Name: "Fine"}
	provider := catalog.NewMemory().
		Add(ref, "", nil). // registered but malformed
		Add(sibling, "", tree.Tree{"id": "x", "type": "Fine"})

	opts := DefaultOptions()
	opts.Iterations = 1
	b, err := NewBuilder(provider, nil, gibberish.None, nil, opts, nil)
	require.NoError(t, err)

	_, err = b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.Error(t, err)
	assert.True(t, catalog.IsInvalidSample(err))
}

func TestBuilder_DepthCapThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 1
	opts.Depth = 50
	opts.MaxDepth = 2
	opts.Seed = 5
	b := newTestBuilder(t, opts)

	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)

	assert.Len(t, triples, 1*(2+1), "depth is capped at the threshold")
}

func TestBuilder_SeedReproducible(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 3
	opts.Depth = 2
	opts.Seed = 17
	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}

	first, err := newTestBuilder(t, opts).BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)
	second, err := newTestBuilder(t, opts).BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuilder_CrossSubjectNegatives(t *testing.T) {
	opts := DefaultOptions()
	opts.Iterations = 6
	opts.Seed = 23
	opts.AnyNegativeSubject = true
	opts.Domain = "Environment"
	b := newTestBuilder(t, opts)

	ref := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	triples, err := b.BuildBatch(context.Background(), ref, catalog.FormatKeyValues)
	require.NoError(t, err)

	scorer := DefaultScorer()
	for _, tr := range triples {
		assert.Equal(t, "dataModel.Weather", tr.Negative.Metadata.Subject)
		assert.Equal(t, scorer.Negative(0, false), tr.Negative.Label, "cross-subject negatives score lower")
	}
}

func TestOptions_Validate(t *testing.T) {
	valid := DefaultOptions()
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Depth = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Iterations = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.SynonymRatio = 1.5
	assert.Error(t, bad.Validate())
}
