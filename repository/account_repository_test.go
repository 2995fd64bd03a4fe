package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinbot/models"
)

func TestAccountRepository_SaveAndGet(t *testing.T) {
	dir := t.TempDir()
	repo := NewAccountRepository(dir)

	_, ok := repo.Get("123")
	assert.False(t, ok)

	require.NoError(t, repo.Save(&models.Account{UserID: "123", Balance: 500, Level: 2}))

	acc, ok := repo.Get("123")
	require.True(t, ok)
	assert.Equal(t, int64(500), acc.Balance)
	assert.Equal(t, 2, acc.Level)
}

func TestAccountRepository_Save_RequiresUserID(t *testing.T) {
	repo := NewAccountRepository(t.TempDir())
	assert.Error(t, repo.Save(&models.Account{Balance: 1}))
}

func TestAccountRepository_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	repo := NewAccountRepository(dir)
	require.NoError(t, repo.Save(&models.Account{UserID: "123", Balance: 700}))
	require.NoError(t, repo.Save(&models.Account{UserID: "456", Bank: 42}))

	// A fresh repository over the same directory sees the same table,
	// with user IDs restored from the map keys
	reopened := NewAccountRepository(dir)
	acc, ok := reopened.Get("123")
	require.True(t, ok)
	assert.Equal(t, "123", acc.UserID)
	assert.Equal(t, int64(700), acc.Balance)

	all := reopened.All()
	require.Len(t, all, 2)
	assert.Equal(t, "123", all[0].UserID)
	assert.Equal(t, "456", all[1].UserID)
}

func TestAccountRepository_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "economy_data.json"), []byte("garbage"), 0644))

	repo := NewAccountRepository(dir)
	_, ok := repo.Get("123")
	assert.False(t, ok)

	// The next save replaces the corrupt document with a valid one
	require.NoError(t, repo.Save(&models.Account{UserID: "123"}))
	reopened := NewAccountRepository(dir)
	_, ok = reopened.Get("123")
	assert.True(t, ok)
}
