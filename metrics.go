package sortedlist

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

type metricShard struct {
	insertCASRetries   atomic.Int64
	insertCASSuccesses atomic.Int64
	removeCASRetries   atomic.Int64
	unlinks            atomic.Int64
	length             atomic.Int64
	// Pad to cache line size to prevent false sharing.
	_ [24]byte
}

// Metrics spreads the list's counters over per-P shards so that concurrent
// writers rarely touch the same cache line.
type Metrics struct {
	shards  []metricShard
	mask    uint32
	rng     *RNG
	enabled bool
}

// Stats is a point-in-time sum of the metric shards.
type Stats struct {
	InsertCASRetries   int64
	InsertCASSuccesses int64
	RemoveCASRetries   int64
	Unlinks            int64
}

func newMetrics(rng *RNG, enabled bool) *Metrics {
	shardCount := 1
	if rng != nil {
		shardCount = runtime.GOMAXPROCS(0)
		if shardCount < 1 {
			shardCount = 1
		}
		shardCount = nextPowerOfTwo(shardCount)
	}
	return &Metrics{
		shards:  make([]metricShard, shardCount),
		mask:    uint32(shardCount - 1),
		rng:     rng,
		enabled: enabled,
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

func (m *Metrics) shard() *metricShard {
	if len(m.shards) == 1 || m.rng == nil {
		return &m.shards[0]
	}
	idx := uint32(m.rng.nextRandom64()) & m.mask
	return &m.shards[idx]
}

func (m *Metrics) IncInsertCASRetry() {
	if m.enabled {
		m.shard().insertCASRetries.Add(1)
	}
}

func (m *Metrics) IncInsertCASSuccess() {
	if m.enabled {
		m.shard().insertCASSuccesses.Add(1)
	}
}

func (m *Metrics) IncRemoveCASRetry() {
	if m.enabled {
		m.shard().removeCASRetries.Add(1)
	}
}

func (m *Metrics) IncUnlink() {
	if m.enabled {
		m.shard().unlinks.Add(1)
	}
}

// AddLen is always recorded; Len is part of the container contract.
func (m *Metrics) AddLen(d int64) {
	m.shard().length.Add(d)
}

func (m *Metrics) Len() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].length.Load()
	}
	return total
}

func (m *Metrics) Stats() Stats {
	var s Stats
	for i := range m.shards {
		s.InsertCASRetries += m.shards[i].insertCASRetries.Load()
		s.InsertCASSuccesses += m.shards[i].insertCASSuccesses.Load()
		s.RemoveCASRetries += m.shards[i].removeCASRetries.Load()
		s.Unlinks += m.shards[i].unlinks.Load()
	}
	return s
}
