package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *FSCatalog {
	t.Helper()
	c, err := NewFSCatalog("testdata/catalog", nil)
	require.NoError(t, err)
	return c
}

func TestNewFSCatalog_MissingRoot(t *testing.T) {
	_, err := NewFSCatalog("testdata/nope", nil)
	assert.Error(t, err)
}

func TestFSCatalog_ListSubjects(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	all, err := c.ListSubjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dataModel.Battery", "dataModel.Weather"}, all)

	energy, err := c.ListSubjects(ctx, "Energy")
	require.NoError(t, err)
	assert.Equal(t, []string{"dataModel.Battery"}, energy)
}

func TestFSCatalog_ListSchemas(t *testing.T) {
	c := testCatalog(t)

	refs, err := c.ListSchemas(context.Background(), "dataModel.Battery")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, Ref{Domain: "Energy", Subject: "dataModel.Battery", Name: "Battery"}, refs[0])
	assert.Equal(t, "BatteryStatus", refs[1].Name)
}

func TestFSCatalog_ListSchemas_UnknownSubject(t *testing.T) {
	c := testCatalog(t)

	_, err := c.ListSchemas(context.Background(), "dataModel.Nope")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestFSCatalog_SharedProperties(t *testing.T) {
	c := testCatalog(t)

	shared, err := c.SharedProperties(context.Background(), "dataModel.Battery")
	require.NoError(t, err)

	// Intersection of Battery and BatteryStatus property definitions.
	assert.Equal(t, []string{"@context", "dateObserved", "id", "type"}, shared.Names())
}

func TestFSCatalog_CanonicalSample(t *testing.T) {
	c := testCatalog(t)
	ref := Ref{Subject: "dataModel.Battery", Name: "Battery"}

	kv, err := c.CanonicalSample(context.Background(), ref, FormatKeyValues)
	require.NoError(t, err)
	assert.Equal(t, 11.9, kv["voltage"])

	norm, err := c.CanonicalSample(context.Background(), ref, FormatNormalized)
	require.NoError(t, err)
	prop, ok := norm["voltage"].(map[string]any)
	require.True(t, ok, "normalized values are property objects")
	assert.Equal(t, 11.9, prop["value"])
}

func TestFSCatalog_CanonicalSample_NonObjectRoot(t *testing.T) {
	c := testCatalog(t)
	ref := Ref{Subject: "dataModel.Weather", Name: "WeatherObserved"}

	_, err := c.CanonicalSample(context.Background(), ref, FormatKeyValues)
	require.Error(t, err)
	assert.True(t, IsInvalidSample(err), "non-object root must surface as InvalidSampleError")
}

func TestFSCatalog_CanonicalSample_Unknown(t *testing.T) {
	c := testCatalog(t)

	_, err := c.CanonicalSample(context.Background(), Ref{Subject: "dataModel.Battery", Name: "Nope"}, FormatKeyValues)
	assert.ErrorIs(t, err, ErrSchemaNotFound)

	_, err = c.CanonicalSample(context.Background(), Ref{Subject: "dataModel.Battery", Name: "Battery"}, Format("bogus"))
	assert.Error(t, err)
}
