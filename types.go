package sortedlist

import (
	"errors"
	"math"
)

const (
	// MinKey is the key of the head sentinel. It can never be inserted.
	MinKey int64 = math.MinInt64
	// MaxKey is the key of the tail sentinel. It can never be inserted.
	MaxKey int64 = math.MaxInt64
)

// Errors
var (
	// ErrInvalidKey is returned by Insert when the key collides with one of the
	// sentinel keys bounding the list.
	ErrInvalidKey = errors.New("key is reserved for a sentinel")
	// ErrCorrupted is returned by CheckIntegrity when the chain reachable from
	// head breaks ordering, loops or ends before tail.
	ErrCorrupted = errors.New("list structure corrupted")
)

// IsSentinel reports whether key is reserved for the head or tail sentinel.
func IsSentinel(key int64) bool {
	return key == MinKey || key == MaxKey
}

// Entry is a key/payload pair produced by ExportEntries.
type Entry[V any] struct {
	Key     int64
	Payload V
}

// Container is the contract shared by the lock-free list and the locking
// baseline. Drivers and tests are written against it once and run against
// either implementation.
type Container[V any] interface {
	// Insert links payload under key. It returns false without error when a
	// live entry already holds key, and ErrInvalidKey for a sentinel key.
	Insert(key int64, payload V) (bool, error)
	// Remove unlinks key and hands its payload back to the caller.
	Remove(key int64) (V, bool)
	// Get returns the payload stored under key.
	Get(key int64) (V, bool)
	// Contains reports whether key is present.
	Contains(key int64) bool
	// Len returns the number of live entries. It is exact only at quiescence.
	Len() int64
	// ExportKeys returns live keys in ascending order, sentinels excluded.
	ExportKeys() []int64
	// ExportEntries returns live entries in ascending key order.
	ExportEntries() []Entry[V]
}

// Config holds configuration for List.
type Config struct {
	// metrics enables the sharded CAS counters reported by Stats.
	metrics bool
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		metrics: true,
	}
}

// WithMetrics toggles the CAS counters. Disabling them removes the shared
// counter writes from the hot path.
func WithMetrics(enabled bool) func(*Config) {
	return func(c *Config) { c.metrics = enabled }
}
