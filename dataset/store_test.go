package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabql-org/tabql/engine"
)

func sampleRows() []engine.Row {
	return []engine.Row{
		{"indication": engine.StringValue("Diabetes"), "cost": engine.NumberValue(150)},
		{"indication": engine.StringValue("Cancer"), "cost": engine.NumberValue(5000)},
	}
}

func TestStoreAddAndGet(t *testing.T) {
	store := NewStore()

	ds, err := store.Add("drugs.csv", sampleRows())
	require.NoError(t, err)
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, "drugs.csv", ds.Name)
	assert.Equal(t, 2, ds.RowCount())
	assert.Len(t, ds.Schema, 2)

	got, ok := store.Get(ds.ID)
	require.True(t, ok)
	assert.Equal(t, ds.ID, got.ID)
}

func TestStoreAddEmptyCreatesNoEntry(t *testing.T) {
	store := NewStore()

	_, err := store.Add("empty.csv", nil)
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, store.Len())
}

func TestStoreGetUnknownID(t *testing.T) {
	store := NewStore()
	_, _ = store.Add("drugs.csv", sampleRows())

	_, ok := store.Get("no-such-id")
	assert.False(t, ok)
}

func TestStoreAddDropsKeysOutsideSchema(t *testing.T) {
	// Schema is inferred from the first row; a stray key appearing only in
	// a later row is dropped at ingestion.
	rows := []engine.Row{
		{"indication": engine.StringValue("Diabetes"), "cost": engine.NumberValue(150)},
		{"indication": engine.StringValue("Cancer"), "cost": engine.NumberValue(5000), "stray": engine.StringValue("x")},
	}

	store := NewStore()
	ds, err := store.Add("drugs.csv", rows)
	require.NoError(t, err)

	_, ok := ds.Rows[1]["stray"]
	assert.False(t, ok)
	assert.Len(t, ds.Rows[1], 2)
}

func TestStoreIDsAreUnique(t *testing.T) {
	store := NewStore()

	a, err := store.Add("first.csv", sampleRows())
	require.NoError(t, err)
	b, err := store.Add("second.csv", sampleRows())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())
}

func TestStoreRemove(t *testing.T) {
	store := NewStore()
	ds, err := store.Add("drugs.csv", sampleRows())
	require.NoError(t, err)

	store.Remove(ds.ID)
	_, ok := store.Get(ds.ID)
	assert.False(t, ok)

	store.Remove("no-such-id") // no-op
	assert.Equal(t, 0, store.Len())
}
