package sortedlist

// Iterator provides a forward-only view over the live entries of a List.
// It is weakly consistent: entries inserted or removed while iterating may or
// may not be observed, but keys are always produced in ascending order.
type Iterator[V any] struct {
	l       *List[V]
	current *node[V]
	key     int64
	value   V
	valid   bool
}

// Iterator returns a new iterator positioned before the first element.
func (l *List[V]) Iterator() *Iterator[V] {
	return &Iterator[V]{l: l}
}

// SeekGE returns an iterator positioned at the first element whose key is
// greater than or equal to key. The returned iterator is valid if and only if
// such an element exists.
func (l *List[V]) SeekGE(key int64) *Iterator[V] {
	it := l.Iterator()
	it.SeekGE(key)
	return it
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator[V]) Valid() bool {
	if it == nil {
		return false
	}
	return it.valid
}

// Key returns the key at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[V]) Key() int64 {
	if it == nil || !it.valid {
		return 0
	}
	return it.key
}

// Value returns the payload at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[V]) Value() V {
	var zero V
	if it == nil || !it.valid {
		return zero
	}
	return it.value
}

// SeekGE positions the iterator at the first live element whose key is
// greater than or equal to key. It returns true if such an element exists.
func (it *Iterator[V]) SeekGE(key int64) bool {
	if it == nil || it.l == nil {
		return false
	}

	it.invalidate()

	current := it.l.locate(key)
	if current != it.l.tail && current.isDeleted() {
		current = it.l.advanceFrom(current)
	}
	if current == nil || current == it.l.tail {
		return false
	}
	it.set(current)
	return true
}

// Next advances the iterator to the next element and reports whether it
// successfully moved forward. If the iterator was not valid prior to the
// call, it advances to the first element.
func (it *Iterator[V]) Next() bool {
	if it == nil || it.l == nil {
		return false
	}

	start := it.current
	if !it.valid {
		start = nil
	}

	next := it.l.advanceFrom(start)
	if next == nil {
		it.invalidate()
		return false
	}
	it.set(next)
	return true
}

func (it *Iterator[V]) set(n *node[V]) {
	it.current = n
	it.key = n.key
	it.value = n.payload
	it.valid = true
}

func (it *Iterator[V]) invalidate() {
	if it == nil {
		return
	}
	it.current = nil
	it.valid = false
	var zeroV V
	it.key = 0
	it.value = zeroV
}
