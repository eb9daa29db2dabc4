package sortedlist

import (
	"sync/atomic"
	"time"
)

const defaultSeed = uint64(0xdeadbeefcafebabe)

func newRandomSeed() uint64 {
	seed := uint64(time.Now().UnixNano())
	if seed == 0 {
		seed = defaultSeed
	}
	return seed
}

// RNG is a lock-free xorshift64* generator. It is safe for concurrent use;
// callers racing on one generator retry their CAS instead of blocking.
type RNG struct {
	seed atomic.Uint64
}

// NewRNG returns a generator seeded with seed, or with the clock when seed is 0.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = newRandomSeed()
	}
	r := &RNG{}
	r.seed.Store(seed)
	return r
}

func (r *RNG) nextRandom64() uint64 {
	for {
		current := r.seed.Load()
		if current == 0 {
			r.seed.CompareAndSwap(0, newRandomSeed())
			continue
		}
		x := current
		x ^= x >> 12
		x ^= x << 25
		x ^= x >> 27
		if x == 0 {
			x = defaultSeed
		}
		if r.seed.CompareAndSwap(current, x) {
			return x * 2685821657736338717
		}
	}
}

// Uint64 returns the next pseudo-random value.
func (r *RNG) Uint64() uint64 {
	return r.nextRandom64()
}

// Int63n returns a pseudo-random value in [0, n). It panics if n <= 0.
func (r *RNG) Int63n(n int64) int64 {
	if n <= 0 {
		panic("sortedlist: Int63n called with non-positive bound")
	}
	return int64(r.nextRandom64()>>1) % n
}
