package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "cart-state")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_WriteReadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`{"version":1,"items":[]}`)
	require.NoError(t, store.Write(ctx, "cart-state", payload))

	got, err := store.Read(ctx, "cart-state")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileStore_WriteOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "k", []byte("old")))
	require.NoError(t, store.Write(ctx, "k", []byte("new")))

	got, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_KeyCannotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "../escape", []byte("v")))

	_, statErr := os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, statErr, "value should stay inside the state directory")
}

func TestSlot_BindsKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	slot := NewSlot(store, "search-history")
	require.NoError(t, slot.Write(ctx, []byte("[]")))

	got, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)
	assert.Equal(t, "search-history", slot.Key())
}
