package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/repository"
)

// capturePublisher records every emitted event for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Emit(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// fakeRand plays back scripted values, falling back to zeros when a
// script runs out. The identity Shuffle keeps deck order predictable.
type fakeRand struct {
	floats  []float64
	ints    []int
	int63s  []int64
	shuffle func(n int, swap func(i, j int))
}

func (r *fakeRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *fakeRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *fakeRand) Int63n(n int64) int64 {
	if len(r.int63s) == 0 {
		return 0
	}
	v := r.int63s[0]
	r.int63s = r.int63s[1:]
	return v % n
}

func (r *fakeRand) Shuffle(n int, swap func(i, j int)) {
	if r.shuffle != nil {
		r.shuffle(n, swap)
	}
}

func testConfig(owners ...string) *config.Config {
	return &config.Config{
		DataDir:         "",
		StartingBalance: 1000,
		BaseDailyMin:    2000,
		BaseDailyMax:    3500,
		DailyXP:         10,
		OwnerIDs:        owners,
		DefaultPrefix:   "+",
		Environment:     "test",
	}
}

// newTestLedger wires a ledger service over a real JSON repository in a
// temp directory, with a frozen clock and a scripted RNG.
func newTestLedger(t *testing.T, cfg *config.Config, rng Rand, at time.Time) (*ledgerService, *repository.AccountRepository) {
	t.Helper()
	repo := repository.NewAccountRepository(t.TempDir())
	svc := NewLedgerService(repo, cfg, nil, rng).(*ledgerService)
	svc.now = func() time.Time { return at }
	return svc, repo
}
