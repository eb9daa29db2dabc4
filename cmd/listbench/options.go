package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/metailurini/sortedlist/harness"
)

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"harness configuration YAML path or URL"`
	Verbose bool   `short:"v" long:"verbose" description:"enable debug logging"`

	Inserts *InsertsCmd `command:"inserts" description:"Insert disjoint key ranges concurrently and verify the result"`
	Churn   *ChurnCmd   `command:"churn"   description:"Insert and remove random keys concurrently for a fixed duration"`
	Demo    *DemoCmd    `command:"demo"    description:"Insert random keys then remove them, printing the list each step"`
}

// Init instantiates the sub-command referenced by the first positional
// argument so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "inserts":
		o.Inserts = &InsertsCmd{}
	case "churn":
		o.Churn = &ChurnCmd{}
	case "demo":
		o.Demo = &DemoCmd{}
	}
}

// WorkloadOptions override fields of the loaded config.
type WorkloadOptions struct {
	Implementation string `short:"i" long:"impl" description:"container implementation" choice:"lockfree" choice:"locked"`
	Workers        int    `short:"w" long:"workers" description:"number of worker goroutines"`
	Seed           uint64 `long:"seed" description:"random seed, 0 uses the clock"`
}

func (w *WorkloadOptions) apply(cfg *harness.Config) {
	if w.Implementation != "" {
		cfg.Implementation = w.Implementation
	}
	if w.Workers > 0 {
		cfg.Workers = w.Workers
	}
	if w.Seed > 0 {
		cfg.Seed = w.Seed
	}
}

var (
	cfgPath string
	logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Run parses args and executes the selected sub-command.
func Run(args []string) error {
	cfgPath = extractConfigPath(args)

	opts := &Options{}
	var first string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") && a != cfgPath {
			first = a
			break
		}
	}
	opts.Init(first)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if opts.Verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil
		}
		logger.Error("listbench failed", "error", err)
		return err
	}
	return nil
}

// extractConfigPath searches the raw argument list for the -f/--config option
// before the full flags parsing so that sub-commands can load the config
// from a deterministic location.
func extractConfigPath(args []string) string {
	for i, a := range args {
		switch a {
		case "-f", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		default:
			if strings.HasPrefix(a, "--config=") {
				return strings.TrimPrefix(a, "--config=")
			}
		}
	}
	return ""
}

// loadConfig returns the config named by -f, or the defaults.
func loadConfig(ctx context.Context) (*harness.Config, error) {
	if cfgPath == "" {
		return harness.DefaultConfig(), nil
	}
	cfg, err := harness.LoadConfig(ctx, cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "path", cfgPath, "config", fmt.Sprintf("%+v", *cfg))
	return cfg, nil
}

func printReport(rep *harness.Report) {
	fmt.Printf("implementation=%s workers=%d ops=%d elapsed=%s ops/s=%.0f\n",
		rep.Implementation, rep.Workers, rep.Ops(), rep.Elapsed.Round(time.Microsecond), rep.OpsPerSecond())
	fmt.Printf("inserted=%d rejected=%d removed=%d misses=%d lookups=%d\n",
		rep.Inserted, rep.Rejected, rep.Removed, rep.Misses, rep.Lookups)
	if s := rep.Stats; s != nil {
		fmt.Printf("insertCASRetries=%d insertCASSuccesses=%d removeCASRetries=%d unlinks=%d\n",
			s.InsertCASRetries, s.InsertCASSuccesses, s.RemoveCASRetries, s.Unlinks)
	}
}
