package sortedlist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenario(t *testing.T) {
	l := New[string]()

	ok, err := l.Insert(5, "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Insert(5, "b")
	require.NoError(t, err)
	require.False(t, ok, "duplicate insert must fail")

	v, found := l.Get(5)
	require.True(t, found)
	assert.Equal(t, "a", v)

	v, found = l.Remove(5)
	require.True(t, found)
	assert.Equal(t, "a", v)

	_, found = l.Get(5)
	assert.False(t, found)
	assert.NotContains(t, l.ExportKeys(), int64(5))
	assert.EqualValues(t, 0, l.Len())
}

func TestInsertRejectsSentinelKeys(t *testing.T) {
	l := New[int]()
	for _, key := range []int64{MinKey, MaxKey} {
		ok, err := l.Insert(key, 1)
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.False(t, ok)
		assert.False(t, l.Contains(key))
		_, found := l.Remove(key)
		assert.False(t, found)
	}
	assert.Empty(t, l.ExportKeys())
	require.NoError(t, l.CheckIntegrity(4))
}

func TestInsertKeepsKeysSorted(t *testing.T) {
	l := New[int]()
	for _, key := range []int64{42, -7, 0, 13, MinKey + 1, MaxKey - 1, 8} {
		ok, err := l.Insert(key, int(key%100))
		require.NoError(t, err)
		require.True(t, ok)
	}

	assert.Equal(t, []int64{MinKey + 1, -7, 0, 8, 13, 42, MaxKey - 1}, l.ExportKeys())
	entries := l.ExportEntries()
	require.Len(t, entries, 7)
	assert.Equal(t, Entry[int]{Key: 13, Payload: 13}, entries[4])
	require.NoError(t, l.CheckIntegrity(16))
}

func TestAbsentKeyOperationsLeaveListUnchanged(t *testing.T) {
	l := New[int]()
	l.Insert(1, 1)
	l.Insert(3, 3)

	_, found := l.Get(2)
	assert.False(t, found)
	_, found = l.Remove(2)
	assert.False(t, found)
	_, found = l.Remove(100)
	assert.False(t, found)

	assert.Equal(t, []int64{1, 3}, l.ExportKeys())
	assert.EqualValues(t, 2, l.Len())
}

func TestPayloadIsReturnedNotCopied(t *testing.T) {
	type blob struct{ n int }
	l := New[*blob]()
	p := &blob{n: 7}
	l.Insert(9, p)

	got, found := l.Get(9)
	require.True(t, found)
	assert.Same(t, p, got)

	removed, found := l.Remove(9)
	require.True(t, found)
	assert.Same(t, p, removed)
}

func TestRemovedKeyCanBeReinserted(t *testing.T) {
	l := New[int]()
	for cycle := 0; cycle < 3; cycle++ {
		ok, err := l.Insert(4, cycle)
		require.NoError(t, err)
		require.True(t, ok)
		v, found := l.Remove(4)
		require.True(t, found)
		assert.Equal(t, cycle, v)
	}
	assert.False(t, l.Contains(4))
	require.NoError(t, l.CheckIntegrity(4))
}

func TestInsertRetriesAfterLosingLinkCAS(t *testing.T) {
	l := New[int]()
	l.Insert(10, 10)
	l.Insert(30, 30)

	var once sync.Once
	insertBeforeLinkHook = func(key int64) {
		if key != 20 {
			return
		}
		// Change 10's successor under the pending insert of 20.
		once.Do(func() { l.Insert(25, 25) })
	}
	defer func() { insertBeforeLinkHook = nil }()

	ok, err := l.Insert(20, 20)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []int64{10, 20, 25, 30}, l.ExportKeys())
	stats := l.Stats()
	assert.GreaterOrEqual(t, stats.InsertCASRetries, int64(1))
	assert.EqualValues(t, 4, stats.InsertCASSuccesses)
}

func TestMarkedNodeIsInvisibleAndSweptBySearch(t *testing.T) {
	l := New[int]()
	for _, key := range []int64{1, 2, 3} {
		l.Insert(key, int(key))
	}

	var once sync.Once
	removeAfterMarkHook = func(target any) {
		once.Do(func() {
			n := target.(*node[int])
			// Win the unlink race from here so Remove's own CAS fails.
			assert.True(t, n.isDeleted())
			assert.False(t, l.Contains(2))
			_, found := l.Get(2)
			assert.False(t, found)
			assert.Equal(t, []int64{1, 3}, l.ExportKeys())

			left, _, right := l.search(2)
			assert.EqualValues(t, 1, left.key)
			assert.EqualValues(t, 3, right.key)
		})
	}
	defer func() { removeAfterMarkHook = nil }()

	v, found := l.Remove(2)
	require.True(t, found)
	assert.Equal(t, 2, v)

	// The search inside the hook unlinked the node.
	one := l.head.succ.Load().next
	require.EqualValues(t, 1, one.key)
	assert.EqualValues(t, 3, one.succ.Load().next.key)
	assert.EqualValues(t, 1, l.Stats().Unlinks)
}

func TestMarkedNodeLeftLinkedIsReplacedOnInsert(t *testing.T) {
	l := New[int]()
	l.Insert(1, 1)
	l.Insert(2, 2)

	target := l.locate(2)
	markWithoutUnlink(t, l, 2)

	assert.False(t, l.Contains(2))
	ok, err := l.Insert(2, 22)
	require.NoError(t, err)
	require.True(t, ok)

	v, found := l.Get(2)
	require.True(t, found)
	assert.Equal(t, 22, v)
	require.NoError(t, l.CheckIntegrity(8))
	assert.NotSame(t, target, l.locate(2))
}

func TestDuplicateInsertRecyclesUnpublishedNode(t *testing.T) {
	l := New[int]()
	l.Insert(1, 1)
	ok, _ := l.Insert(1, 2)
	require.False(t, ok)

	n := l.acquireNode(7, 70)
	assert.Nil(t, n.succ.Load())
	assert.EqualValues(t, 7, n.key)
	assert.Equal(t, 70, n.payload)
	l.releaseNode(n)

	// Sentinels are never pooled.
	l.releaseNode(l.head)
	assert.Equal(t, MinKey, l.head.key)
	assert.NotNil(t, l.head.succ.Load())
}

func TestCheckIntegrityDetectsCorruption(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		l := New[int]()
		l.Insert(1, 1)
		l.Insert(2, 2)
		two := l.locate(2)
		one := l.locate(1)
		two.succ.Store(&link[int]{next: one})
		assert.ErrorIs(t, l.CheckIntegrity(100), ErrCorrupted)
	})

	t.Run("dangling", func(t *testing.T) {
		l := New[int]()
		l.Insert(1, 1)
		l.locate(1).succ.Store(&link[int]{})
		assert.ErrorIs(t, l.CheckIntegrity(100), ErrCorrupted)
	})

	t.Run("step budget", func(t *testing.T) {
		l := New[int]()
		for i := int64(0); i < 10; i++ {
			l.Insert(i, 0)
		}
		assert.ErrorIs(t, l.CheckIntegrity(5), ErrCorrupted)
		assert.NoError(t, l.CheckIntegrity(11))
	})
}

func TestWithMetricsDisabled(t *testing.T) {
	l := New[int](WithMetrics(false))
	l.Insert(1, 1)
	l.Insert(2, 2)
	l.Remove(1)

	assert.Equal(t, Stats{}, l.Stats())
	assert.EqualValues(t, 1, l.Len())
}
