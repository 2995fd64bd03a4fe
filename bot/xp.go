package bot

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
)

const (
	xpCooldown  = 60 * time.Second
	xpMin       = 5
	xpMax       = 15
	levelReward = 2000 // coins per level, multiplied by the level reached
)

// handleMessage enforces mutes and awards passive message XP.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx := context.Background()

	if b.moderationService.IsMuted(ctx, m.GuildID, m.Author.ID) {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			log.Warnf("Failed to delete message from muted user %s: %v", m.Author.ID, err)
		}
		return
	}

	if !b.takeXPCooldown(m.Author.ID) {
		return
	}

	amount := b.rollXP()
	acc, err := b.ledgerService.GetOrCreate(ctx, m.Author.ID)
	if err != nil {
		log.Errorf("Error materializing account for %s: %v", m.Author.ID, err)
		return
	}
	oldLevel := acc.Level

	newLevel, leveledUp, err := b.ledgerService.AddXP(ctx, m.Author.ID, amount)
	if err != nil {
		log.Errorf("Error adding message XP for %s: %v", m.Author.ID, err)
		return
	}
	if !leveledUp {
		return
	}

	// Each level crossed pays its own reward
	var reward int64
	for lvl := oldLevel + 1; lvl <= newLevel; lvl++ {
		reward += int64(lvl) * levelReward
	}
	if err := b.ledgerService.Credit(ctx, m.Author.ID, reward, false); err != nil {
		log.Errorf("Error paying level-up reward to %s: %v", m.Author.ID, err)
		return
	}

	msg := fmt.Sprintf("🎉 <@%s> reached level **%d** and earned **%s coins**!",
		m.Author.ID, newLevel, common.FormatBalance(reward))
	if _, err := s.ChannelMessageSend(m.ChannelID, msg); err != nil {
		log.Warnf("Failed to announce level-up for %s: %v", m.Author.ID, err)
	}
}

// takeXPCooldown reports whether the user is past their XP cooldown and,
// if so, starts a new one.
func (b *Bot) takeXPCooldown(userID string) bool {
	b.xpMu.Lock()
	defer b.xpMu.Unlock()

	now := time.Now()
	if last, ok := b.xpSeen[userID]; ok && now.Sub(last) < xpCooldown {
		return false
	}
	b.xpSeen[userID] = now
	return true
}

func (b *Bot) rollXP() int64 {
	if b.xpRandFn != nil {
		return b.xpRandFn()
	}
	return int64(rand.Intn(xpMax-xpMin+1) + xpMin)
}
