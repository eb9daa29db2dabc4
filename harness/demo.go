package harness

import (
	"fmt"
	"io"

	"github.com/metailurini/sortedlist"
)

// Demo inserts rounds random keys drawn from [0, keySpace), printing the
// key list after every insert, then removes every remaining key in order,
// printing the list after every removal.
func Demo(w io.Writer, c sortedlist.Container[*Payload], rng *sortedlist.RNG, rounds int, keySpace int64) error {
	for i := 0; i < rounds; i++ {
		key := rng.Int63n(keySpace)
		if _, err := c.Insert(key, &Payload{Seq: int64(i)}); err != nil {
			return err
		}
		if err := printKeys(w, c); err != nil {
			return err
		}
	}

	for _, key := range c.ExportKeys() {
		if _, ok := c.Remove(key); !ok {
			return fmt.Errorf("key %d vanished before removal", key)
		}
		if err := printKeys(w, c); err != nil {
			return err
		}
	}
	return nil
}

func printKeys(w io.Writer, c sortedlist.Container[*Payload]) error {
	_, err := fmt.Fprintln(w, c.ExportKeys())
	return err
}
