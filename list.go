package sortedlist

import (
	"sync"
)

var _ Container[any] = (*List[any])(nil)

// List is a lock-free sorted list keyed by int64, after Harris's
// non-blocking linked list. Structural changes are single CAS operations on a
// node's successor link; removal first marks the node deleted and then
// unlinks it, with any later search helping to finish the unlink.
type List[V any] struct {
	head     *node[V]
	tail     *node[V]
	metrics  *Metrics
	nodePool sync.Pool
}

// New returns an empty List bounded by the MinKey and MaxKey sentinels.
func New[V any](opts ...func(*Config)) *List[V] {
	config := NewConfig()
	for _, opt := range opts {
		opt(&config)
	}

	head, tail := newSentinels[V]()
	l := &List[V]{
		head:    head,
		tail:    tail,
		metrics: newMetrics(NewRNG(0), config.metrics),
	}
	l.nodePool.New = func() any { return &node[V]{} }
	return l
}

// search returns the window for key: left is live with left.key < key, right
// is the first live node after left with right.key >= key, and leftLink is
// the unmarked link of left that points straight at right. Deleted nodes
// found between left and right are unlinked before returning.
func (l *List[V]) search(key int64) (left *node[V], leftLink *link[V], right *node[V]) {
restart:
	for {
		t := l.head
		tLink := t.succ.Load()

		// Find left and right.
		for {
			if !tLink.deleted {
				left = t
				leftLink = tLink
			}
			t = tLink.next
			if t == l.tail {
				break
			}
			tLink = t.succ.Load()
			if !tLink.deleted && t.key >= key {
				break
			}
		}
		right = t

		// Already adjacent.
		if leftLink.next == right {
			if right != l.tail && right.isDeleted() {
				continue restart
			}
			return left, leftLink, right
		}

		// Unlink the deleted run between left and right.
		swept := &link[V]{next: right}
		if left.succ.CompareAndSwap(leftLink, swept) {
			l.metrics.IncUnlink()
			if right != l.tail && right.isDeleted() {
				continue restart
			}
			return left, swept, right
		}
	}
}

// Insert links payload under key. It returns false if a live entry already
// holds key; the payload is then not retained. Sentinel keys are rejected
// with ErrInvalidKey.
func (l *List[V]) Insert(key int64, payload V) (bool, error) {
	if IsSentinel(key) {
		return false, ErrInvalidKey
	}

	n := l.acquireNode(key, payload)
	for {
		left, leftLink, right := l.search(key)

		if right != l.tail && right.key == key {
			if !right.isDeleted() {
				l.releaseNode(n)
				return false, nil
			}
			// Marked after search returned; the next search sweeps it.
			l.metrics.IncInsertCASRetry()
			continue
		}

		n.succ.Store(&link[V]{next: right})

		if insertBeforeLinkHook != nil {
			insertBeforeLinkHook(key)
		}

		if left.succ.CompareAndSwap(leftLink, &link[V]{next: n}) {
			l.metrics.IncInsertCASSuccess()
			l.metrics.AddLen(1)
			return true, nil
		}
		l.metrics.IncInsertCASRetry()
	}
}

// Remove logically deletes the live node holding key and returns its
// payload. Exactly one of several racing removals of the same node wins;
// the others observe the key as absent.
func (l *List[V]) Remove(key int64) (V, bool) {
	var zero V
	if IsSentinel(key) {
		return zero, false
	}

	for {
		left, leftLink, right := l.search(key)
		if right == l.tail || right.key != key {
			return zero, false
		}

		rightLink := right.succ.Load()
		if rightLink.deleted {
			// Another remover won; search again so the node is swept.
			continue
		}

		marked := &link[V]{next: rightLink.next, deleted: true}
		if !right.succ.CompareAndSwap(rightLink, marked) {
			l.metrics.IncRemoveCASRetry()
			continue
		}
		l.metrics.AddLen(-1)

		if removeAfterMarkHook != nil {
			removeAfterMarkHook(right)
		}

		if left.succ.CompareAndSwap(leftLink, &link[V]{next: rightLink.next}) {
			l.metrics.IncUnlink()
		}
		return right.payload, true
	}
}

// Len returns the number of live entries. Under concurrent mutation the value
// is approximate.
func (l *List[V]) Len() int64 {
	return l.metrics.Len()
}

// Stats reports CAS contention counters. All fields stay zero when the list
// was built WithMetrics(false).
func (l *List[V]) Stats() Stats {
	return l.metrics.Stats()
}
