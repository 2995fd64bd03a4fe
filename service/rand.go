package service

import "sync"

// lockedRand serializes access to a randomness source. *math/rand.Rand
// is not safe for concurrent use, and game handlers run on their own
// goroutines, so a source shared between services must be guarded.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

// NewLockedRand wraps a randomness source so it can be shared across
// concurrently running services.
func NewLockedRand(src Rand) Rand {
	return &lockedRand{src: src}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRand) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Int63n(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, swap)
}
