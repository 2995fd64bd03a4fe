package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := New[record](dir, "scores")

	table := map[string]record{
		"alice": {Name: "alice", Score: 100},
		"bob":   {Name: "bob", Score: -5},
	}
	require.NoError(t, store.Save(table))

	loaded := New[record](dir, "scores").Load()
	assert.Equal(t, table, loaded)
}

func TestStore_Load_MissingFileIsEmpty(t *testing.T) {
	store := New[record](t.TempDir(), "nothing_here")

	loaded := store.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStore_Load_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := New[record](dir, "scores")
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	loaded := store.Load()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStore_Load_WrongShapeIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := New[record](dir, "scores")
	require.NoError(t, os.WriteFile(store.Path(), []byte(`[1,2,3]`), 0644))

	assert.Empty(t, store.Load())
}

func TestStore_Save_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := New[record](dir, "scores")

	require.NoError(t, store.Save(map[string]record{"x": {Name: "x"}}))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestStore_Save_RewritesWholeTable(t *testing.T) {
	dir := t.TempDir()
	store := New[record](dir, "scores")

	require.NoError(t, store.Save(map[string]record{
		"alice": {Name: "alice", Score: 1},
		"bob":   {Name: "bob", Score: 2},
	}))
	require.NoError(t, store.Save(map[string]record{
		"alice": {Name: "alice", Score: 9},
	}))

	loaded := store.Load()
	assert.Len(t, loaded, 1)
	assert.Equal(t, int64(9), loaded["alice"].Score)
}

func TestStore_Save_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New[record](dir, "scores")
	require.NoError(t, store.Save(map[string]record{"a": {}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scores.json", entries[0].Name())
}
