// Package locked provides the coarse-grained baseline for sortedlist: a
// sentinel-bounded sorted singly-linked list guarded by one readers-writer
// lock. It exists to cross-check and benchmark the lock-free List.
package locked

import (
	"errors"
	"sync"

	"github.com/metailurini/sortedlist"
)

var _ sortedlist.Container[any] = (*List[any])(nil)

// ErrMalformedList is raised when a List was not created with New.
var ErrMalformedList = errors.New("the list was not init-ed properly")

// Node is a single element of the list.
type Node[V any] struct {
	Key     int64
	Payload V
	next    *Node[V]
}

// Next returns the node's successor.
func (n *Node[V]) Next() *Node[V] {
	return n.next
}

// List is a sorted list where Insert and Remove hold the exclusive lock and
// every read holds the shared lock.
type List[V any] struct {
	mu     sync.RWMutex
	head   *Node[V]
	tail   *Node[V]
	length int64
}

// New creates an empty List bounded by the sortedlist sentinel keys.
func New[V any]() *List[V] {
	tail := &Node[V]{Key: sortedlist.MaxKey}
	return &List[V]{
		head: &Node[V]{Key: sortedlist.MinKey, next: tail},
		tail: tail,
	}
}

// Head returns the head sentinel node of the list.
func (list *List[V]) Head() *Node[V] {
	if list == nil || list.head == nil {
		panic(ErrMalformedList)
	}
	return list.head
}

// predecessor returns the last node whose key is < key. The caller holds mu.
func (list *List[V]) predecessor(key int64) *Node[V] {
	rn := list.Head()
	for rn.next.Key < key {
		rn = rn.next
	}
	return rn
}

// Insert links payload under key unless key is already present.
func (list *List[V]) Insert(key int64, payload V) (bool, error) {
	if sortedlist.IsSentinel(key) {
		return false, sortedlist.ErrInvalidKey
	}

	list.mu.Lock()
	defer list.mu.Unlock()

	pred := list.predecessor(key)
	if pred.next != list.tail && pred.next.Key == key {
		return false, nil
	}
	pred.next = &Node[V]{Key: key, Payload: payload, next: pred.next}
	list.length++
	return true, nil
}

// Remove unlinks key and returns its payload.
func (list *List[V]) Remove(key int64) (V, bool) {
	var empty V
	if sortedlist.IsSentinel(key) {
		return empty, false
	}

	list.mu.Lock()
	defer list.mu.Unlock()

	pred := list.predecessor(key)
	target := pred.next
	if target == list.tail || target.Key != key {
		return empty, false
	}
	pred.next = target.next
	target.next = nil
	list.length--
	return target.Payload, true
}

// Get returns the payload stored under key.
func (list *List[V]) Get(key int64) (V, bool) {
	var empty V
	if sortedlist.IsSentinel(key) {
		return empty, false
	}

	list.mu.RLock()
	defer list.mu.RUnlock()

	rn := list.predecessor(key).next
	if rn == list.tail || rn.Key != key {
		return empty, false
	}
	return rn.Payload, true
}

// Contains reports whether key is present.
func (list *List[V]) Contains(key int64) bool {
	_, ok := list.Get(key)
	return ok
}

// Len returns the number of elements currently stored in the list.
func (list *List[V]) Len() int64 {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return list.length
}

// ExportKeys returns the keys in ascending order.
func (list *List[V]) ExportKeys() []int64 {
	list.mu.RLock()
	defer list.mu.RUnlock()

	keys := make([]int64, 0, list.length)
	for rn := list.head.next; rn != list.tail; rn = rn.next {
		keys = append(keys, rn.Key)
	}
	return keys
}

// ExportEntries returns the entries in ascending key order.
func (list *List[V]) ExportEntries() []sortedlist.Entry[V] {
	list.mu.RLock()
	defer list.mu.RUnlock()

	entries := make([]sortedlist.Entry[V], 0, list.length)
	for rn := list.head.next; rn != list.tail; rn = rn.next {
		entries = append(entries, sortedlist.Entry[V]{Key: rn.Key, Payload: rn.Payload})
	}
	return entries
}

// Range calls fn for each entry in ascending key order until fn returns
// false. The shared lock is held for the whole walk, so fn must not call
// Insert or Remove on the same list.
func (list *List[V]) Range(fn func(key int64, payload V) bool) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	for rn := list.head.next; rn != list.tail; rn = rn.next {
		if !fn(rn.Key, rn.Payload) {
			return
		}
	}
}
