package main

import (
	"context"

	"github.com/metailurini/sortedlist/harness"
)

// InsertsCmd has every worker insert its own contiguous key range into one
// shared container and reports throughput.
type InsertsCmd struct {
	WorkloadOptions
	KeysPerWorker int64 `short:"n" long:"keys" description:"keys inserted by each worker"`
}

func (c *InsertsCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if c.KeysPerWorker > 0 {
		cfg.KeysPerWorker = c.KeysPerWorker
	}

	container, err := harness.NewContainer(cfg.Implementation)
	if err != nil {
		return err
	}
	rep, err := harness.New(cfg, harness.WithLogger(logger)).RunInserts(ctx, container)
	if rep != nil {
		printReport(rep)
	}
	return err
}
