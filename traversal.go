package sortedlist

import "fmt"

// locate walks from head without helping unlink and returns the first node
// whose key is >= key, deleted or not. Since at most one node per key is
// reachable, the caller only has to check that node's mark.
func (l *List[V]) locate(key int64) *node[V] {
	cur := l.head.succ.Load().next
	for cur != l.tail && cur.key < key {
		cur = cur.succ.Load().next
	}
	return cur
}

// advanceFrom returns the first live node after start, or nil at tail.
func (l *List[V]) advanceFrom(start *node[V]) *node[V] {
	base := start
	if base == nil {
		base = l.head
	}
	for {
		next := base.succ.Load().next
		if next == l.tail {
			return nil
		}
		if !next.isDeleted() {
			return next
		}
		base = next
	}
}

// Get returns the payload stored under key. It never mutates the list.
func (l *List[V]) Get(key int64) (V, bool) {
	var zero V
	if IsSentinel(key) {
		return zero, false
	}
	n := l.locate(key)
	if n == l.tail || n.key != key || n.isDeleted() {
		return zero, false
	}
	return n.payload, true
}

// Contains returns true if key is present.
func (l *List[V]) Contains(key int64) bool {
	if IsSentinel(key) {
		return false
	}
	n := l.locate(key)
	return n != l.tail && n.key == key && !n.isDeleted()
}

// ExportKeys returns the live keys in ascending order. The result is a
// weakly consistent snapshot, not a transaction.
func (l *List[V]) ExportKeys() []int64 {
	var keys []int64
	for it := l.Iterator(); it.Next(); {
		keys = append(keys, it.Key())
	}
	return keys
}

// ExportEntries returns the live entries in ascending key order.
func (l *List[V]) ExportEntries() []Entry[V] {
	var entries []Entry[V]
	for it := l.Iterator(); it.Next(); {
		entries = append(entries, Entry[V]{Key: it.Key(), Payload: it.Value()})
	}
	return entries
}

// CheckIntegrity walks the physical chain, deleted nodes included, and
// verifies that it reaches tail within maxSteps links, that keys never
// descend and that live keys are unique. It is meant for quiescent points.
func (l *List[V]) CheckIntegrity(maxSteps int) error {
	prev := l.head
	lastLive := MinKey
	for steps := 0; ; steps++ {
		if steps > maxSteps {
			return fmt.Errorf("%w: tail not reached within %d steps", ErrCorrupted, maxSteps)
		}
		succ := prev.succ.Load()
		if succ == nil || succ.next == nil {
			return fmt.Errorf("%w: dangling successor after key %d", ErrCorrupted, prev.key)
		}
		cur := succ.next
		if cur == l.tail {
			return nil
		}
		if IsSentinel(cur.key) {
			return fmt.Errorf("%w: sentinel key %d inside the chain", ErrCorrupted, cur.key)
		}
		if cur.key < prev.key {
			return fmt.Errorf("%w: key %d follows %d", ErrCorrupted, cur.key, prev.key)
		}
		if !cur.isDeleted() {
			if cur.key <= lastLive {
				return fmt.Errorf("%w: live key %d repeated or out of order", ErrCorrupted, cur.key)
			}
			lastLive = cur.key
		}
		prev = cur
	}
}
