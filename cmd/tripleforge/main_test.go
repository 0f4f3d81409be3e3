package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/config"
	"github.com/c360studio/tripleforge/tree"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Catalog.Domain = "Energy"
	cfg.Catalog.Subject = "dataModel.Battery"
	return cfg
}

func TestGeneratorOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Depth = 2
	cfg.Generation.Iterations = 5
	cfg.Generation.SynonymRatio = 0.3
	cfg.Generation.SnakeCase = true
	cfg.Generation.RetainedProperties = []string{"id", "type"}
	cfg.Generation.Seed = 42

	opts := generatorOptions(cfg)
	require.NoError(t, opts.Validate())

	assert.Equal(t, 2, opts.Depth)
	assert.Equal(t, 5, opts.Iterations)
	assert.Equal(t, 0.3, opts.SynonymRatio)
	assert.True(t, opts.SnakeCase)
	assert.True(t, opts.Retained.Has("id"))
	assert.True(t, opts.Retained.Has("type"))
	assert.False(t, opts.Retained.Has("@context"))
	assert.Equal(t, "Energy", opts.Domain)
	assert.Equal(t, int64(42), opts.Seed)
}

func TestPlanJobs(t *testing.T) {
	batteryRef := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}
	statusRef := catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "BatteryStatus"}
	cat := catalog.NewMemory().
		Add(batteryRef, "", tree.Tree{"id": "urn:b:1", "type": "Battery"}).
		Add(statusRef, "", tree.Tree{"id": "urn:s:1", "type": "BatteryStatus"})

	t.Run("whole subject, both formats", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output.KeyValuesEnabled = true

		jobs, err := planJobs(context.Background(), cfg, cat)
		require.NoError(t, err)
		assert.Len(t, jobs, 4)
	})

	t.Run("single schema, normalized only", func(t *testing.T) {
		cfg := testConfig()
		cfg.Catalog.Name = "Battery"

		jobs, err := planJobs(context.Background(), cfg, cat)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, batteryRef, jobs[0].Ref)
		assert.Equal(t, catalog.FormatNormalized, jobs[0].Format)
	})
}
