package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "state")

		store, err := NewFile(dir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("does not create the state file until first write", func(t *testing.T) {
		store, err := NewFile(t.TempDir())
		require.NoError(t, err)

		_, err = os.Stat(store.Path())
		assert.True(t, os.IsNotExist(err))
	})
}

func TestFile_SetGetRemove(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("token", "a.b.c"))
	require.NoError(t, store.Set("user", `{"email":"a@b.com"}`))

	value, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", value)

	require.NoError(t, store.Remove("token"))
	_, ok, err = store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other keys survive
	value, ok, err = store.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"email":"a@b.com"}`, value)

	// Removing a missing key is fine
	require.NoError(t, store.Remove("missing"))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("token", "a.b.c"))

	second, err := NewFile(dir)
	require.NoError(t, err)

	value, ok, err := second.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", value)
}

func TestFile_StateFileFormat(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("token", "a.b.c"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var st state
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, 1, st.Version)
	assert.Equal(t, map[string]string{"token": "a.b.c"}, st.Items)
	assert.False(t, st.UpdatedAt.IsZero())

	// No temp file left behind
	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFile_Corrupt(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{ not json`), 0600))

	_, _, err = store.Get("token")
	require.ErrorIs(t, err, ErrCorrupt)

	err = store.Set("token", "a.b.c")
	require.ErrorIs(t, err, ErrCorrupt)

	// Remove resets the file
	require.NoError(t, store.Remove("token"))

	_, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("token", "a.b.c"))
}
