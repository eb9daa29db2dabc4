package harness

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/metailurini/sortedlist"
)

var (
	// ErrUnordered is returned when exported keys are not strictly ascending.
	ErrUnordered = errors.New("exported keys are not strictly ascending")
	// ErrMismatch is returned when exported keys differ from the expected set.
	ErrMismatch = errors.New("exported keys do not match expectation")
)

// ExpectedRanges returns the union of the per-worker key ranges used by
// RunInserts.
func ExpectedRanges(workers int, perWorker int64) *roaring64.Bitmap {
	expected := roaring64.New()
	if workers <= 0 || perWorker <= 0 {
		return expected
	}
	expected.AddRange(0, uint64(workers)*uint64(perWorker))
	return expected
}

// Verify checks that c exports strictly ascending keys and that they are
// exactly the members of expected.
func Verify[V any](c sortedlist.Container[V], expected *roaring64.Bitmap) error {
	keys := c.ExportKeys()
	if err := checkAscending(keys); err != nil {
		return err
	}

	got := roaring64.New()
	for _, k := range keys {
		if k < 0 {
			return fmt.Errorf("%w: negative key %d", ErrMismatch, k)
		}
		got.Add(uint64(k))
	}
	if got.Equals(expected) {
		return nil
	}

	missing := roaring64.AndNot(expected, got)
	extra := roaring64.AndNot(got, expected)
	err := fmt.Errorf("%w: %d missing, %d unexpected", ErrMismatch, missing.GetCardinality(), extra.GetCardinality())
	if !missing.IsEmpty() {
		err = fmt.Errorf("%w (first missing %d)", err, missing.Minimum())
	}
	return err
}

func checkAscending(keys []int64) error {
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			return fmt.Errorf("%w: %d follows %d at position %d", ErrUnordered, keys[i], keys[i-1], i)
		}
	}
	return nil
}
