package main

import (
	"os"

	"github.com/metailurini/sortedlist"
	"github.com/metailurini/sortedlist/harness"
)

// DemoCmd replays the single-threaded smoke run: random inserts followed by
// removal of every key, printing the list after each step.
type DemoCmd struct {
	Implementation string `short:"i" long:"impl" description:"container implementation" choice:"lockfree" choice:"locked" default:"lockfree"`
	Rounds         int    `short:"r" long:"rounds" description:"number of random inserts" default:"100"`
	KeySpace       int64  `short:"k" long:"key-space" description:"keys are drawn from [0, key-space)" default:"100"`
	Seed           uint64 `long:"seed" description:"random seed, 0 uses the clock"`
}

func (c *DemoCmd) Execute(_ []string) error {
	container, err := harness.NewContainer(c.Implementation)
	if err != nil {
		return err
	}
	return harness.Demo(os.Stdout, container, sortedlist.NewRNG(c.Seed), c.Rounds, c.KeySpace)
}
