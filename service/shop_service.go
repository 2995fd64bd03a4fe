package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"coinbot/models"
)

// catalog is the static shop inventory. Prices are wallet coins; items
// are flavor only, so there is no effect machinery behind them here.
var catalog = []models.ShopItem{
	{ID: "ring_love", Name: "💍 Love Ring", Description: "ring symbolizing true love", Price: 50000, Category: "ring", Emoji: "💍", Tradeable: true, Usable: true, Effect: "+5% coins when using daily"},
	{ID: "ring_couple", Name: "💕 Couple Ring", Description: "ring for loving couples", Price: 120000, Category: "ring", Emoji: "💕", Tradeable: true, Usable: true, Effect: "+10% coins when using daily"},
	{ID: "ring_eternal", Name: "💎 Eternal Ring", Description: "diamond ring symbolizing eternal love", Price: 500000, Category: "ring", Emoji: "💎", Tradeable: true, Usable: true, Effect: "+25% coins when using daily"},
	{ID: "box_common", Name: "📦 Common Box", Description: "basic lootbox containing random items", Price: 8000, Category: "lootbox", Emoji: "📦", Tradeable: true, Usable: true, Effect: "open to receive random items"},
	{ID: "box_rare", Name: "🎁 Rare Box", Description: "rare lootbox containing valuable items", Price: 25000, Category: "lootbox", Emoji: "🎁", Tradeable: true, Usable: true, Effect: "open to receive rare items"},
	{ID: "box_legendary", Name: "🎊 Legendary Box", Description: "legendary lootbox with priceless treasures", Price: 100000, Category: "lootbox", Emoji: "🎊", Tradeable: true, Usable: true, Effect: "open to receive legendary items"},
	{ID: "cookie", Name: "🍪 Lucky Cookie", Description: "cookie bringing luck in casino", Price: 5000, Category: "consumable", Emoji: "🍪", Tradeable: true, Usable: true, Effect: "+10% casino win rate (1 time)"},
	{ID: "clover", Name: "🍀 Four Leaf Clover", Description: "rare four leaf clover bringing fortune", Price: 12000, Category: "consumable", Emoji: "🍀", Tradeable: true, Usable: true, Effect: "+20% casino win rate (1 time)"},
	{ID: "gem", Name: "💠 Precious Gem", Description: "rare precious gem of high value", Price: 40000, Category: "collectible", Emoji: "💠", Tradeable: true, Usable: false, Effect: "collectible item"},
	{ID: "trophy", Name: "🏆 Gold Trophy", Description: "gold trophy for champions", Price: 80000, Category: "collectible", Emoji: "🏆", Tradeable: true, Usable: false, Effect: "collectible item"},
	{ID: "crown", Name: "👑 Royal Crown", Description: "crown of royalty", Price: 150000, Category: "collectible", Emoji: "👑", Tradeable: true, Usable: false, Effect: "collectible item"},
}

type shopService struct {
	ledger LedgerService
	repo   InventoryRepository
	items  map[string]models.ShopItem
}

// NewShopService creates a new shop service backed by the ledger for
// payment and the inventory repository for ownership.
func NewShopService(ledger LedgerService, repo InventoryRepository) ShopService {
	items := make(map[string]models.ShopItem, len(catalog))
	for _, item := range catalog {
		items[item.ID] = item
	}
	return &shopService{
		ledger: ledger,
		repo:   repo,
		items:  items,
	}
}

func (s *shopService) Catalog() []models.ShopItem {
	return append([]models.ShopItem(nil), catalog...)
}

func (s *shopService) Item(itemID string) (models.ShopItem, bool) {
	item, ok := s.items[itemID]
	return item, ok
}

// Buy purchases quantity of an item. Payment goes through the ledger
// debit, so insufficient funds and infinity semantics are the ledger's.
// Returns the total price charged.
func (s *shopService) Buy(ctx context.Context, userID, itemID string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, ErrInvalidAmount
	}
	item, ok := s.items[itemID]
	if !ok {
		return 0, ErrUnknownItem
	}

	total := item.Price * int64(quantity)
	if err := s.ledger.Debit(ctx, userID, total, false); err != nil {
		return 0, err
	}

	inv := s.repo.Get(userID)
	inv.Add(itemID, quantity)
	if err := s.repo.Save(userID, inv); err != nil {
		return 0, fmt.Errorf("failed to persist purchase: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"item":     itemID,
		"quantity": quantity,
		"total":    total,
	}).Info("Shop purchase")
	return total, nil
}

// Give moves items between inventories. Non-tradeable items stay put.
func (s *shopService) Give(ctx context.Context, fromID, toID, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}
	item, ok := s.items[itemID]
	if !ok {
		return ErrUnknownItem
	}
	if !item.Tradeable {
		return ErrNotInInventory
	}

	from := s.repo.Get(fromID)
	if !from.Remove(itemID, quantity) {
		return ErrNotInInventory
	}
	to := s.repo.Get(toID)
	to.Add(itemID, quantity)

	if err := s.repo.Save(fromID, from); err != nil {
		return fmt.Errorf("failed to persist giver inventory: %w", err)
	}
	if err := s.repo.Save(toID, to); err != nil {
		return fmt.Errorf("failed to persist receiver inventory: %w", err)
	}
	return nil
}

func (s *shopService) Inventory(ctx context.Context, userID string) (*models.Inventory, error) {
	return s.repo.Get(userID), nil
}
