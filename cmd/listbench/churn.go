package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metailurini/sortedlist/harness"
)

// ChurnCmd runs random inserts, removes and lookups over a small key space.
type ChurnCmd struct {
	WorkloadOptions
	Duration     time.Duration `short:"d" long:"duration" description:"how long workers run"`
	KeySpace     int64         `short:"k" long:"key-space" description:"keys are drawn from [0, key-space)"`
	WritePercent int           `long:"write-percent" description:"share of operations that mutate"`
}

func (c *ChurnCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if c.Duration > 0 {
		cfg.Duration = c.Duration
	}
	if c.KeySpace > 0 {
		cfg.KeySpace = c.KeySpace
	}
	if c.WritePercent > 0 {
		cfg.WritePercent = c.WritePercent
	}

	container, err := harness.NewContainer(cfg.Implementation)
	if err != nil {
		return err
	}
	rep, err := harness.New(cfg, harness.WithLogger(logger)).RunChurn(ctx, container)
	if rep != nil {
		printReport(rep)
	}
	return err
}
