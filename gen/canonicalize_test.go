package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gibberish"
	"github.com/c360studio/tripleforge/tree"
)

var testRef = catalog.Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}

func TestCanonicalize_RemovesSharedExceptRetained(t *testing.T) {
	raw := tree.Tree{
		"id":           "urn:b:1",
		"type":         "Battery",
		"dateObserved": "2025-01-01",
		"voltage":      11.9,
	}
	shared := catalog.NewPropertySet("id", "type", "dateObserved")
	retained := catalog.NewPropertySet("id", "type")

	out, rec, err := Canonicalize(raw, testRef, shared, retained, gibberish.None)
	require.NoError(t, err)

	assert.Contains(t, out, "id")
	assert.Contains(t, out, "type")
	assert.Contains(t, out, "voltage")
	assert.NotContains(t, out, "dateObserved")
	assert.Equal(t, []string{"dateObserved"}, rec.Excluded)
	assert.Empty(t, rec.Unfitting)
}

func TestCanonicalize_RetainedSurvivesAtAnyDepth(t *testing.T) {
	raw := tree.Tree{
		"id": "urn:b:1",
		"battery": map[string]any{
			"id":      "nested-id",
			"voltage": 11.9,
		},
		"cells": []any{
			map[string]any{"id": "cell-0", "capacity": 1.2},
		},
	}
	shared := catalog.NewPropertySet("id", "voltage", "capacity")
	retained := catalog.NewPropertySet("id")

	out, rec, err := Canonicalize(raw, testRef, shared, retained, gibberish.None)
	require.NoError(t, err)

	for _, p := range []string{"id", "battery.id", "cells.0.id"} {
		_, ok := out.Get(tree.ParsePath(p))
		assert.True(t, ok, "retained path %s must survive", p)
	}
	_, ok := out.Get(tree.ParsePath("battery.voltage"))
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"battery.voltage", "cells.0.capacity"}, rec.Excluded)
}

func TestCanonicalize_ClearsGibberishLeaves(t *testing.T) {
	raw := tree.Tree{
		"id":          "urn:b:1",
		"description": "An example of a long sentence value",
		"status": map[string]any{
			"value": "another sentence with several words",
		},
	}

	out, rec, err := Canonicalize(raw, testRef, catalog.PropertySet{}, catalog.NewPropertySet("id"), gibberish.Sentence)
	require.NoError(t, err)

	v, _ := out.Get(tree.ParsePath("description"))
	assert.Equal(t, "", v)
	v, _ = out.Get(tree.ParsePath("status.value"))
	assert.Equal(t, "", v)
	assert.ElementsMatch(t, []string{"description", "status.value"}, rec.Unfitting)
}

func TestCanonicalize_DoesNotMutateInput(t *testing.T) {
	raw := tree.Tree{
		"id":           "urn:b:1",
		"dateObserved": "2025-01-01",
		"description":  "a long sentence that will be cleared",
	}
	shared := catalog.NewPropertySet("dateObserved")

	_, _, err := Canonicalize(raw, testRef, shared, catalog.PropertySet{}, gibberish.Sentence)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", raw["dateObserved"])
	assert.Equal(t, "a long sentence that will be cleared", raw["description"])
}

func TestCanonicalize_NilRootIsInvalidSample(t *testing.T) {
	_, _, err := Canonicalize(nil, testRef, catalog.PropertySet{}, catalog.PropertySet{}, nil)
	require.Error(t, err)
	assert.True(t, catalog.IsInvalidSample(err))
}
