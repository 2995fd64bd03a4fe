package repository

import (
	"fmt"
	"sync"

	"coinbot/models"
	"coinbot/storage"
)

// ModerationRepository stores the three small moderation tables: timed
// mutes (guild -> user -> mute), disabled commands (channel -> command
// list) and custom prefixes (guild -> prefix).
type ModerationRepository struct {
	mu sync.Mutex

	muteStore     *storage.Store[map[string]models.Mute]
	disabledStore *storage.Store[[]string]
	prefixStore   *storage.Store[string]

	mutes    map[string]map[string]models.Mute
	disabled map[string][]string
	prefixes map[string]string
	loaded   bool
}

// NewModerationRepository creates a moderation repository rooted at dataDir.
func NewModerationRepository(dataDir string) *ModerationRepository {
	return &ModerationRepository{
		muteStore:     storage.New[map[string]models.Mute](dataDir, "mute_data"),
		disabledStore: storage.New[[]string](dataDir, "disabled_commands"),
		prefixStore:   storage.New[string](dataDir, "prefix_data"),
	}
}

func (r *ModerationRepository) ensure() {
	if r.loaded {
		return
	}
	r.mutes = r.muteStore.Load()
	r.disabled = r.disabledStore.Load()
	r.prefixes = r.prefixStore.Load()
	r.loaded = true
}

// GetMute returns the mute entry for a user in a guild, if any.
func (r *ModerationRepository) GetMute(guildID, userID string) (models.Mute, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	m, ok := r.mutes[guildID][userID]
	return m, ok
}

// SetMute records a mute entry and persists the table.
func (r *ModerationRepository) SetMute(guildID, userID string, m models.Mute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if r.mutes[guildID] == nil {
		r.mutes[guildID] = make(map[string]models.Mute)
	}
	r.mutes[guildID][userID] = m
	if err := r.muteStore.Save(r.mutes); err != nil {
		return fmt.Errorf("failed to persist mutes: %w", err)
	}
	return nil
}

// DeleteMute removes a mute entry, reporting whether one existed.
func (r *ModerationRepository) DeleteMute(guildID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if _, ok := r.mutes[guildID][userID]; !ok {
		return false, nil
	}
	delete(r.mutes[guildID], userID)
	if len(r.mutes[guildID]) == 0 {
		delete(r.mutes, guildID)
	}
	if err := r.muteStore.Save(r.mutes); err != nil {
		return false, fmt.Errorf("failed to persist mutes: %w", err)
	}
	return true, nil
}

// GuildMutes returns all mute entries for a guild, keyed by user ID.
func (r *ModerationRepository) GuildMutes(guildID string) map[string]models.Mute {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	out := make(map[string]models.Mute, len(r.mutes[guildID]))
	for userID, m := range r.mutes[guildID] {
		out[userID] = m
	}
	return out
}

// DisabledCommands returns the commands disabled in a channel.
func (r *ModerationRepository) DisabledCommands(channelID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	return append([]string(nil), r.disabled[channelID]...)
}

// SetDisabledCommands replaces the disabled command list for a channel.
// An empty list removes the channel from the table.
func (r *ModerationRepository) SetDisabledCommands(channelID string, commands []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if len(commands) == 0 {
		delete(r.disabled, channelID)
	} else {
		r.disabled[channelID] = commands
	}
	if err := r.disabledStore.Save(r.disabled); err != nil {
		return fmt.Errorf("failed to persist disabled commands: %w", err)
	}
	return nil
}

// Prefix returns the custom prefix for a guild, if one is set.
func (r *ModerationRepository) Prefix(guildID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	p, ok := r.prefixes[guildID]
	return p, ok
}

// SetPrefix records a guild's custom prefix.
func (r *ModerationRepository) SetPrefix(guildID, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	r.prefixes[guildID] = prefix
	if err := r.prefixStore.Save(r.prefixes); err != nil {
		return fmt.Errorf("failed to persist prefixes: %w", err)
	}
	return nil
}

// DeletePrefix removes a guild's custom prefix.
func (r *ModerationRepository) DeletePrefix(guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if _, ok := r.prefixes[guildID]; !ok {
		return nil
	}
	delete(r.prefixes, guildID)
	if err := r.prefixStore.Save(r.prefixes); err != nil {
		return fmt.Errorf("failed to persist prefixes: %w", err)
	}
	return nil
}
