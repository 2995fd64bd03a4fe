package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/config"
	"coinbot/models"
)

const maxPrefixLength = 10

type moderationService struct {
	repo ModerationRepository
	cfg  *config.Config
	now  func() time.Time
}

// NewModerationService creates a new moderation service.
func NewModerationService(repo ModerationRepository, cfg *config.Config) ModerationService {
	return &moderationService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (s *moderationService) Mute(ctx context.Context, guildID, userID string, duration time.Duration, reason string) (models.Mute, error) {
	if duration <= 0 {
		return models.Mute{}, ErrInvalidAmount
	}
	if reason == "" {
		reason = "no reason provided"
	}
	now := s.now()
	m := models.Mute{
		MutedAt:         now,
		Until:           now.Add(duration),
		DurationMinutes: int(duration / time.Minute),
		Reason:          reason,
	}
	if err := s.repo.SetMute(guildID, userID, m); err != nil {
		return models.Mute{}, fmt.Errorf("failed to record mute: %w", err)
	}
	log.WithFields(log.Fields{
		"guildID": guildID,
		"userID":  userID,
		"until":   m.Until,
	}).Info("User muted")
	return m, nil
}

func (s *moderationService) Unmute(ctx context.Context, guildID, userID string) (bool, error) {
	return s.repo.DeleteMute(guildID, userID)
}

// IsMuted reports whether a user is muted right now. Expired entries
// are cleaned up lazily on read.
func (s *moderationService) IsMuted(ctx context.Context, guildID, userID string) bool {
	m, ok := s.repo.GetMute(guildID, userID)
	if !ok {
		return false
	}
	if !m.Active(s.now()) {
		if _, err := s.repo.DeleteMute(guildID, userID); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  userID,
				"error":   err,
			}).Warn("Failed to clear expired mute")
		}
		return false
	}
	return true
}

func (s *moderationService) ActiveMutes(ctx context.Context, guildID string) map[string]models.Mute {
	now := s.now()
	active := make(map[string]models.Mute)
	for userID, m := range s.repo.GuildMutes(guildID) {
		if m.Active(now) {
			active[userID] = m
		}
	}
	return active
}

func (s *moderationService) DisableCommand(ctx context.Context, channelID, command string) (bool, error) {
	commands := s.repo.DisabledCommands(channelID)
	for _, c := range commands {
		if c == command {
			return false, nil
		}
	}
	commands = append(commands, command)
	if err := s.repo.SetDisabledCommands(channelID, commands); err != nil {
		return false, fmt.Errorf("failed to disable command: %w", err)
	}
	return true, nil
}

func (s *moderationService) EnableCommand(ctx context.Context, channelID, command string) (bool, error) {
	commands := s.repo.DisabledCommands(channelID)
	kept := commands[:0]
	found := false
	for _, c := range commands {
		if c == command {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return false, nil
	}
	if err := s.repo.SetDisabledCommands(channelID, kept); err != nil {
		return false, fmt.Errorf("failed to enable command: %w", err)
	}
	return true, nil
}

func (s *moderationService) IsCommandDisabled(ctx context.Context, channelID, command string) bool {
	for _, c := range s.repo.DisabledCommands(channelID) {
		if c == command {
			return true
		}
	}
	return false
}

func (s *moderationService) Prefix(ctx context.Context, guildID string) string {
	if p, ok := s.repo.Prefix(guildID); ok {
		return p
	}
	return s.cfg.DefaultPrefix
}

func (s *moderationService) SetPrefix(ctx context.Context, guildID, prefix string) error {
	if prefix == "" || len(prefix) > maxPrefixLength {
		return ErrInvalidPrefix
	}
	return s.repo.SetPrefix(guildID, prefix)
}

func (s *moderationService) ResetPrefix(ctx context.Context, guildID string) error {
	return s.repo.DeletePrefix(guildID)
}
