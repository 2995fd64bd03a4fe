package shop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/service"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	catalog := f.shopService.Catalog()

	// Group by category, keeping catalog order within each group
	byCategory := make(map[string][]string)
	var categories []string
	for _, item := range catalog {
		if _, seen := byCategory[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category],
			fmt.Sprintf("%s **%s** — %s coins (`%s`)", item.Emoji, item.Name, common.FormatBalance(item.Price), item.ID))
	}

	embed := &discordgo.MessageEmbed{
		Title: "🛒 Shop",
		Color: 0x9B59B6,
	}
	for _, cat := range categories {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  titleCase(cat),
			Value: strings.Join(byCategory[cat], "\n"),
		})
	}
	common.RespondWithEmbed(s, i, embed, false)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	userID := i.Member.User.ID

	itemID := ""
	quantity := 1
	for _, opt := range opts {
		switch opt.Name {
		case "item":
			itemID = opt.StringValue()
		case "quantity":
			quantity = int(opt.IntValue())
		}
	}

	total, err := f.shopService.Buy(ctx, userID, itemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownItem):
			common.RespondWithError(s, i, "That item isn't in the shop. Use `/shop list` to see what's for sale.")
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Quantity must be positive.")
		case errors.Is(err, service.ErrInsufficientFunds):
			common.RespondWithError(s, i, "You don't have enough coins in your wallet.")
		default:
			log.Errorf("Error buying %dx %s for %s: %v", quantity, itemID, userID, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
		}
		return
	}

	item, _ := f.shopService.Item(itemID)
	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Bought **%d× %s %s** for **%s coins**",
		quantity, item.Emoji, item.Name, common.FormatBalance(total)))
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	fromID := i.Member.User.ID

	itemID := ""
	quantity := 1
	var recipient *discordgo.User
	for _, opt := range opts {
		switch opt.Name {
		case "item":
			itemID = opt.StringValue()
		case "quantity":
			quantity = int(opt.IntValue())
		case "user":
			recipient = opt.UserValue(s)
		}
	}
	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}

	if err := f.shopService.Give(ctx, fromID, recipient.ID, itemID, quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownItem):
			common.RespondWithError(s, i, "That item doesn't exist.")
		case errors.Is(err, service.ErrNotInInventory):
			common.RespondWithError(s, i, "You don't have enough of that item.")
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Quantity must be positive.")
		default:
			log.Errorf("Error giving %dx %s from %s to %s: %v", quantity, itemID, fromID, recipient.ID, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
		}
		return
	}

	item, _ := f.shopService.Item(itemID)
	common.RespondWithMessage(s, i, fmt.Sprintf("🎁 Gave **%d× %s %s** to <@%s>",
		quantity, item.Emoji, item.Name, recipient.ID))
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	target := i.Member.User
	for _, opt := range opts {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	inv, err := f.shopService.Inventory(ctx, target.ID)
	if err != nil {
		log.Errorf("Error getting inventory for %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to retrieve inventory. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)
	if len(inv.Items) == 0 {
		common.RespondWithMessage(s, i, fmt.Sprintf("🎒 %s's inventory is empty.", displayName))
		return
	}

	ids := make([]string, 0, len(inv.Items))
	for id := range inv.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines []string
	for _, id := range ids {
		if item, ok := f.shopService.Item(id); ok {
			lines = append(lines, fmt.Sprintf("%s **%s** ×%d", item.Emoji, item.Name, inv.Items[id]))
		} else {
			lines = append(lines, fmt.Sprintf("**%s** ×%d", id, inv.Items[id]))
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎒 %s's inventory", displayName),
		Description: strings.Join(lines, "\n"),
		Color:       0x9B59B6,
	}
	common.RespondWithEmbed(s, i, embed, false)
}
