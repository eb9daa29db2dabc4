package sortedlist

import "sync/atomic"

// link is an immutable successor reference paired with the deleted flag of the
// node that owns it. Swapping the whole link in one CAS lets "replace
// successor" and "mark deleted" share a single atomic word.
type link[V any] struct {
	next    *node[V]
	deleted bool
}

// node holds a key, the caller's payload and the successor link.
// key and payload are written before the node is published and never again.
type node[V any] struct {
	key     int64
	payload V
	succ    atomic.Pointer[link[V]]
}

func (n *node[V]) isDeleted() bool {
	l := n.succ.Load()
	return l != nil && l.deleted
}

func newSentinels[V any]() (*node[V], *node[V]) {
	tail := &node[V]{key: MaxKey}
	head := &node[V]{key: MinKey}
	head.succ.Store(&link[V]{next: tail})
	return head, tail
}
