package statestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/state.db")
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("key", "value"))

	value, ok, err := store.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/state.db")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("key", "first"))
	require.NoError(t, store.Set("key", "second"))

	value, _, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestSQLiteStoreDelete(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/state.db")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Delete("key"))

	_, ok, err := store.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error
	require.NoError(t, store.Delete("key"))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := t.TempDir() + "/state.db"

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAwaitingPaymentResult, "true"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(KeyAwaitingPaymentResult)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", value)
}
