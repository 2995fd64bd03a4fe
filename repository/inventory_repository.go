package repository

import (
	"fmt"
	"sync"
	"time"

	"coinbot/models"
	"coinbot/storage"
)

// InventoryRepository stores per-user shop inventories.
type InventoryRepository struct {
	mu     sync.Mutex
	store  *storage.Store[*models.Inventory]
	table  map[string]*models.Inventory
	loaded bool
}

// NewInventoryRepository creates an inventory repository rooted at dataDir.
func NewInventoryRepository(dataDir string) *InventoryRepository {
	return &InventoryRepository{
		store: storage.New[*models.Inventory](dataDir, "user_inventory"),
	}
}

func (r *InventoryRepository) ensure() {
	if r.loaded {
		return
	}
	r.table = r.store.Load()
	r.loaded = true
}

// Get returns the inventory for a user, creating an empty one in memory
// if none exists. The empty inventory is not persisted until mutated.
func (r *InventoryRepository) Get(userID string) *models.Inventory {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	if inv, ok := r.table[userID]; ok {
		if inv.Items == nil {
			inv.Items = make(map[string]int)
		}
		return inv
	}
	return models.NewInventory()
}

// Save upserts a user's inventory and rewrites the backing file.
func (r *InventoryRepository) Save(userID string, inv *models.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	inv.UpdatedAt = time.Now()
	r.table[userID] = inv
	if err := r.store.Save(r.table); err != nil {
		return fmt.Errorf("failed to persist inventories: %w", err)
	}
	return nil
}
