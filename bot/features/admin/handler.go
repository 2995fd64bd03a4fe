package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/service"
)

// isOwner gates the economy override commands to the configured owner set
func (f *Feature) isOwner(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if f.cfg.IsOwner(i.Member.User.ID) {
		return true
	}
	common.RespondWithError(s, i, "Only the bot owner can use this command.")
	return false
}

// isAdmin gates the moderation commands to guild administrators
func (f *Feature) isAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	common.RespondWithError(s, i, "You need the Administrator permission to use this command.")
	return false
}

func (f *Feature) handleSetLevel(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isOwner(s, i) {
		return
	}
	ctx := context.Background()

	var target *discordgo.User
	var level int64
	for _, opt := range opts {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "level":
			level = opt.IntValue()
		}
	}
	if target == nil || level < 1 {
		common.RespondWithError(s, i, "Provide a user and a level of at least 1.")
		return
	}

	if err := f.ledgerService.SetLevel(ctx, target.ID, int(level)); err != nil {
		log.Errorf("Error setting level %d for %s: %v", level, target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Set <@%s> to level **%d**.", target.ID, level))
}

func (f *Feature) handleInfinity(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isOwner(s, i) {
		return
	}
	ctx := context.Background()

	var target *discordgo.User
	var enabled bool
	for _, opt := range opts {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "enabled":
			enabled = opt.BoolValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	if err := f.ledgerService.SetInfinity(ctx, target.ID, enabled); err != nil {
		log.Errorf("Error setting infinity=%v for %s: %v", enabled, target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	common.RespondWithMessage(s, i, fmt.Sprintf("♾️ Infinity mode **%s** for <@%s>.", state, target.ID))
}

func (f *Feature) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isAdmin(s, i) {
		return
	}
	ctx := context.Background()

	var target *discordgo.User
	var minutes int64
	reason := ""
	for _, opt := range opts {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "minutes":
			minutes = opt.IntValue()
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	mute, err := f.moderationService.Mute(ctx, i.GuildID, target.ID, time.Duration(minutes)*time.Minute, reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			common.RespondWithError(s, i, "Duration must be at least one minute.")
			return
		}
		log.Errorf("Error muting %s in guild %s: %v", target.ID, i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("🔇 Muted <@%s> for **%d minutes** (until %s). Reason: %s",
		target.ID, mute.DurationMinutes, common.FormatDiscordTimestamp(mute.Until, "t"), mute.Reason))
}

func (f *Feature) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isAdmin(s, i) {
		return
	}
	ctx := context.Background()

	var target *discordgo.User
	for _, opt := range opts {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	removed, err := f.moderationService.Unmute(ctx, i.GuildID, target.ID)
	if err != nil {
		log.Errorf("Error unmuting %s in guild %s: %v", target.ID, i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !removed {
		common.RespondWithError(s, i, "That user isn't muted.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("🔊 Unmuted <@%s>.", target.ID))
}

func (f *Feature) handleMutes(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.isAdmin(s, i) {
		return
	}
	ctx := context.Background()

	mutes := f.moderationService.ActiveMutes(ctx, i.GuildID)
	if len(mutes) == 0 {
		common.RespondWithMessage(s, i, "No active mutes in this server.")
		return
	}

	userIDs := make([]string, 0, len(mutes))
	for id := range mutes {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var lines []string
	for _, id := range userIDs {
		m := mutes[id]
		lines = append(lines, fmt.Sprintf("<@%s> — until %s (%s)",
			id, common.FormatDiscordTimestamp(m.Until, "t"), m.Reason))
	}
	common.RespondWithMessage(s, i, "🔇 Active mutes:\n"+strings.Join(lines, "\n"))
}

func (f *Feature) handleDisable(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isAdmin(s, i) {
		return
	}
	ctx := context.Background()

	command := ""
	for _, opt := range opts {
		if opt.Name == "command" {
			command = opt.StringValue()
		}
	}

	changed, err := f.moderationService.DisableCommand(ctx, i.ChannelID, command)
	if err != nil {
		log.Errorf("Error disabling command %q in channel %s: %v", command, i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !changed {
		common.RespondWithError(s, i, fmt.Sprintf("`%s` is already disabled in this channel.", command))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("🚫 Disabled `%s` in this channel.", command))
}

func (f *Feature) handleEnable(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !f.isAdmin(s, i) {
		return
	}
	ctx := context.Background()

	command := ""
	for _, opt := range opts {
		if opt.Name == "command" {
			command = opt.StringValue()
		}
	}

	changed, err := f.moderationService.EnableCommand(ctx, i.ChannelID, command)
	if err != nil {
		log.Errorf("Error enabling command %q in channel %s: %v", command, i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !changed {
		common.RespondWithError(s, i, fmt.Sprintf("`%s` isn't disabled in this channel.", command))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Enabled `%s` in this channel.", command))
}

func (f *Feature) handlePrefix(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	value := ""
	reset := false
	for _, opt := range opts {
		switch opt.Name {
		case "value":
			value = opt.StringValue()
		case "reset":
			reset = opt.BoolValue()
		}
	}

	// Reads are open to everyone; changes need admin
	if value == "" && !reset {
		prefix := f.moderationService.Prefix(ctx, i.GuildID)
		common.RespondWithMessage(s, i, fmt.Sprintf("The command prefix here is `%s`.", prefix))
		return
	}

	if !f.isAdmin(s, i) {
		return
	}

	if reset {
		if err := f.moderationService.ResetPrefix(ctx, i.GuildID); err != nil {
			log.Errorf("Error resetting prefix for guild %s: %v", i.GuildID, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
			return
		}
		common.RespondWithMessage(s, i, fmt.Sprintf("✅ Prefix reset to `%s`.", f.cfg.DefaultPrefix))
		return
	}

	if err := f.moderationService.SetPrefix(ctx, i.GuildID, value); err != nil {
		if errors.Is(err, service.ErrInvalidPrefix) {
			common.RespondWithError(s, i, "Prefix must be 1-10 characters.")
			return
		}
		log.Errorf("Error setting prefix %q for guild %s: %v", value, i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Prefix set to `%s`.", value))
}
