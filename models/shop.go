package models

import "time"

// ShopItem is a catalog entry. The catalog is static and compiled in;
// only inventories are persisted.
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Category    string
	Emoji       string
	Tradeable   bool
	Usable      bool
	Effect      string
}

// Inventory is a user's owned items, keyed by item ID.
type Inventory struct {
	Items     map[string]int `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{Items: make(map[string]int)}
}

// Count returns how many of an item the inventory holds.
func (inv *Inventory) Count(itemID string) int {
	return inv.Items[itemID]
}

// Add puts n of an item into the inventory.
func (inv *Inventory) Add(itemID string, n int) {
	if inv.Items == nil {
		inv.Items = make(map[string]int)
	}
	inv.Items[itemID] += n
}

// Remove takes n of an item out, reporting false if there are not enough.
func (inv *Inventory) Remove(itemID string, n int) bool {
	if inv.Items[itemID] < n {
		return false
	}
	inv.Items[itemID] -= n
	if inv.Items[itemID] == 0 {
		delete(inv.Items, itemID)
	}
	return true
}
