package sortedlist

// acquireNode hands out a node for an insert attempt. The node stays private
// to the caller until the link CAS publishes it.
func (l *List[V]) acquireNode(key int64, payload V) *node[V] {
	n := l.nodePool.Get().(*node[V])
	n.key = key
	n.payload = payload
	n.succ.Store(nil)
	return n
}

// releaseNode recycles a node that was never linked. Published nodes must not
// come back here: a concurrent traversal may still be reading them.
func (l *List[V]) releaseNode(n *node[V]) {
	if n == nil || n == l.head || n == l.tail {
		return
	}

	var zero V
	n.key = 0
	n.payload = zero
	n.succ.Store(nil)

	l.nodePool.Put(n)
}
