package repository

import (
	"fmt"
	"sort"
	"sync"

	"coinbot/models"
	"coinbot/storage"
)

// AccountRepository implements the AccountRepository interface over the
// economy table. The table is read from disk on first access and held
// in memory for the process lifetime; every mutation rewrites the file.
type AccountRepository struct {
	mu     sync.Mutex
	store  *storage.Store[*models.Account]
	table  map[string]*models.Account
	loaded bool
}

// NewAccountRepository creates an account repository rooted at dataDir.
func NewAccountRepository(dataDir string) *AccountRepository {
	return &AccountRepository{
		store: storage.New[*models.Account](dataDir, "economy_data"),
	}
}

func (r *AccountRepository) ensure() {
	if r.loaded {
		return
	}
	r.table = r.store.Load()
	for id, acc := range r.table {
		acc.UserID = id
	}
	r.loaded = true
}

// Get returns the account for a user, or false if none exists yet.
func (r *AccountRepository) Get(userID string) (*models.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	acc, ok := r.table[userID]
	return acc, ok
}

// Save upserts the account into the table and rewrites the backing file.
func (r *AccountRepository) Save(acc *models.Account) error {
	if acc.UserID == "" {
		return fmt.Errorf("account has no user ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	r.table[acc.UserID] = acc
	if err := r.store.Save(r.table); err != nil {
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	return nil
}

// All returns every account, ordered by user ID for stable iteration.
func (r *AccountRepository) All() []*models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	accounts := make([]*models.Account, 0, len(r.table))
	for _, acc := range r.table {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].UserID < accounts[j].UserID
	})
	return accounts
}
