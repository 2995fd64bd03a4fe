package daily

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/service"
)

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	reward, err := f.ledgerService.ClaimDaily(ctx, userID)
	if err != nil {
		var cooldown *service.CooldownError
		if errors.As(err, &cooldown) {
			common.RespondWithError(s, i, fmt.Sprintf(
				"You already claimed your daily reward. Come back in **%s** (%s).",
				common.FormatDuration(cooldown.Remaining),
				common.FormatDiscordTimestamp(cooldown.NextClaim, "R")))
			return
		}
		log.Errorf("Error claiming daily for %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to claim your daily reward. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, userID)
	embed := &discordgo.MessageEmbed{
		Title:       "🎁 Daily reward",
		Description: fmt.Sprintf("%s claimed **%s coins**!", displayName, common.FormatBalance(reward.Amount)),
		Color:       0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: fmt.Sprintf("🔥 %d days (+%.2f%%)", reward.Streak, reward.StreakBonusPct), Inline: true},
			{Name: "Level bonus", Value: fmt.Sprintf("+%.2f%%", reward.LevelBonusPct), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("+%d", reward.XPGained), Inline: true},
		},
	}
	if reward.LeveledUp {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Level up!",
			Value: fmt.Sprintf("⬆️ You reached level **%d**", reward.NewLevel),
		})
	}
	common.RespondWithEmbed(s, i, embed, false)
}
