package service

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockedRand_DelegatesToSource(t *testing.T) {
	src := &fakeRand{floats: []float64{0.25}, ints: []int{3}, int63s: []int64{7}}
	r := NewLockedRand(src)

	assert.Equal(t, 0.25, r.Float64())
	assert.Equal(t, 3, r.Intn(10))
	assert.Equal(t, int64(7), r.Int63n(100))

	vals := []int{1, 2, 3}
	r.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	assert.Equal(t, []int{1, 2, 3}, vals, "identity source leaves order alone")
}

func TestLockedRand_ConcurrentUse(t *testing.T) {
	r := NewLockedRand(rand.New(rand.NewSource(1)))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n := r.Intn(6)
				if n < 0 || n > 5 {
					t.Errorf("Intn(6) out of range: %d", n)
					return
				}
				f := r.Float64()
				if f < 0 || f >= 1 {
					t.Errorf("Float64 out of range: %f", f)
					return
				}
				_ = r.Int63n(100)
			}
		}()
	}
	wg.Wait()
}
