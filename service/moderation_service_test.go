package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinbot/repository"
)

func newTestModeration(t *testing.T) *moderationService {
	t.Helper()
	repo := repository.NewModerationRepository(t.TempDir())
	svc := NewModerationService(repo, testConfig()).(*moderationService)
	svc.now = func() time.Time { return testTime }
	return svc
}

func TestModerationService_MuteLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	m, err := svc.Mute(ctx, "guild1", "123", 30*time.Minute, "spamming")
	require.NoError(t, err)
	assert.Equal(t, 30, m.DurationMinutes)
	assert.Equal(t, testTime.Add(30*time.Minute), m.Until)
	assert.Equal(t, "spamming", m.Reason)

	assert.True(t, svc.IsMuted(ctx, "guild1", "123"))
	assert.False(t, svc.IsMuted(ctx, "guild1", "456"))
	assert.False(t, svc.IsMuted(ctx, "guild2", "123"))

	removed, err := svc.Unmute(ctx, "guild1", "123")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, svc.IsMuted(ctx, "guild1", "123"))

	removed, err = svc.Unmute(ctx, "guild1", "123")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestModerationService_Mute_DefaultsAndRefusals(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	_, err := svc.Mute(ctx, "guild1", "123", 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	m, err := svc.Mute(ctx, "guild1", "123", time.Minute, "")
	require.NoError(t, err)
	assert.Equal(t, "no reason provided", m.Reason)
}

func TestModerationService_ExpiredMuteClearsOnRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	_, err := svc.Mute(ctx, "guild1", "123", 10*time.Minute, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return testTime.Add(11 * time.Minute) }
	assert.False(t, svc.IsMuted(ctx, "guild1", "123"))
	assert.Empty(t, svc.ActiveMutes(ctx, "guild1"))
}

func TestModerationService_ActiveMutesFiltersExpired(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	_, err := svc.Mute(ctx, "guild1", "shortlived", 5*time.Minute, "")
	require.NoError(t, err)
	_, err = svc.Mute(ctx, "guild1", "longlived", 2*time.Hour, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return testTime.Add(time.Hour) }
	active := svc.ActiveMutes(ctx, "guild1")
	require.Len(t, active, 1)
	assert.Contains(t, active, "longlived")
}

func TestModerationService_DisableEnableCommand(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	changed, err := svc.DisableCommand(ctx, "chan1", "slots")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, svc.IsCommandDisabled(ctx, "chan1", "slots"))
	assert.False(t, svc.IsCommandDisabled(ctx, "chan2", "slots"))

	// Disabling twice is a no-op
	changed, err = svc.DisableCommand(ctx, "chan1", "slots")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.EnableCommand(ctx, "chan1", "slots")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, svc.IsCommandDisabled(ctx, "chan1", "slots"))

	changed, err = svc.EnableCommand(ctx, "chan1", "slots")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestModerationService_Prefix(t *testing.T) {
	ctx := context.Background()
	svc := newTestModeration(t)

	assert.Equal(t, "+", svc.Prefix(ctx, "guild1"))

	require.NoError(t, svc.SetPrefix(ctx, "guild1", "!!"))
	assert.Equal(t, "!!", svc.Prefix(ctx, "guild1"))
	assert.Equal(t, "+", svc.Prefix(ctx, "guild2"))

	assert.ErrorIs(t, svc.SetPrefix(ctx, "guild1", ""), ErrInvalidPrefix)
	assert.ErrorIs(t, svc.SetPrefix(ctx, "guild1", "12345678901"), ErrInvalidPrefix)

	require.NoError(t, svc.ResetPrefix(ctx, "guild1"))
	assert.Equal(t, "+", svc.Prefix(ctx, "guild1"))
}
