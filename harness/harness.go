// Package harness drives sortedlist containers from many goroutines: it
// builds a container, spawns workers that call Insert, Remove and Get,
// measures throughput and checks the final contents.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/metailurini/sortedlist"
	"github.com/metailurini/sortedlist/locked"
)

// ctxCheckInterval is how many operations a worker performs between
// cancellation checks.
const ctxCheckInterval = 1024

// Payload is what workers store. The harness owns every payload; the
// container only holds references to them.
type Payload struct {
	Worker int
	Seq    int64
}

// NewContainer builds an empty container of the named implementation.
func NewContainer(impl string) (sortedlist.Container[*Payload], error) {
	switch impl {
	case ImplLockFree, "":
		return sortedlist.New[*Payload](), nil
	case ImplLocked:
		return locked.New[*Payload](), nil
	default:
		return nil, fmt.Errorf("unknown implementation %q", impl)
	}
}

// Report summarises one run.
type Report struct {
	Implementation string
	Workers        int
	Inserted       int64
	Rejected       int64
	Removed        int64
	Misses         int64
	Lookups        int64
	Elapsed        time.Duration
	// Stats is set for containers that expose CAS counters.
	Stats *sortedlist.Stats
}

// Ops returns the number of container calls made during the run.
func (r *Report) Ops() int64 {
	return r.Inserted + r.Rejected + r.Removed + r.Misses + r.Lookups
}

// OpsPerSecond returns throughput over the measured interval.
func (r *Report) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops()) / r.Elapsed.Seconds()
}

type statser interface {
	Stats() sortedlist.Stats
}

type integrityChecker interface {
	CheckIntegrity(maxSteps int) error
}

// Runner executes workloads described by a Config.
type Runner struct {
	cfg    *Config
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New returns a Runner for cfg. A nil cfg means DefaultConfig.
func New(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Runner{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.cfg
}

type counters struct {
	inserted atomic.Int64
	rejected atomic.Int64
	removed  atomic.Int64
	misses   atomic.Int64
	lookups  atomic.Int64
}

func (r *Runner) report(c sortedlist.Container[*Payload], cnt *counters, elapsed time.Duration) *Report {
	rep := &Report{
		Implementation: r.cfg.Implementation,
		Workers:        r.cfg.Workers,
		Inserted:       cnt.inserted.Load(),
		Rejected:       cnt.rejected.Load(),
		Removed:        cnt.removed.Load(),
		Misses:         cnt.misses.Load(),
		Lookups:        cnt.lookups.Load(),
		Elapsed:        elapsed,
	}
	if s, ok := c.(statser); ok {
		stats := s.Stats()
		rep.Stats = &stats
	}
	return rep
}

// RunInserts has worker w insert keys [w*KeysPerWorker, (w+1)*KeysPerWorker)
// into c, then verifies that c holds exactly the union of those ranges.
func (r *Runner) RunInserts(ctx context.Context, c sortedlist.Container[*Payload]) (*Report, error) {
	workers, perWorker := r.cfg.Workers, r.cfg.KeysPerWorker
	r.logger.Info("starting insert run",
		"implementation", r.cfg.Implementation,
		"workers", workers,
		"keysPerWorker", perWorker)

	var cnt counters
	start := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			<-start
			base := int64(worker) * perWorker
			for i := int64(0); i < perWorker; i++ {
				if i%ctxCheckInterval == 0 && ctx.Err() != nil {
					return
				}
				ok, err := c.Insert(base+i, &Payload{Worker: worker, Seq: i})
				if err != nil || !ok {
					cnt.rejected.Add(1)
					continue
				}
				cnt.inserted.Add(1)
			}
		}(w)
	}

	began := time.Now()
	close(start)
	wg.Wait()
	rep := r.report(c, &cnt, time.Since(began))

	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("insert run interrupted: %w", err)
	}
	if rep.Rejected > 0 {
		return rep, fmt.Errorf("%d inserts of fresh keys were rejected", rep.Rejected)
	}
	if err := Verify(c, ExpectedRanges(workers, perWorker)); err != nil {
		return rep, err
	}

	r.logger.Info("insert run finished",
		"inserted", rep.Inserted,
		"elapsed", rep.Elapsed,
		"opsPerSecond", rep.OpsPerSecond())
	return rep, nil
}

// RunChurn has every worker pick random keys from [0, KeySpace) and insert,
// remove or look them up until Duration elapses or ctx is done. Afterwards
// the container must be sorted, and its size must equal successful inserts
// minus successful removes.
func (r *Runner) RunChurn(ctx context.Context, c sortedlist.Container[*Payload]) (*Report, error) {
	cfg := r.cfg
	r.logger.Info("starting churn run",
		"implementation", cfg.Implementation,
		"workers", cfg.Workers,
		"keySpace", cfg.KeySpace,
		"writePercent", cfg.WritePercent,
		"duration", cfg.Duration)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var cnt counters
	var wg sync.WaitGroup
	began := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := sortedlist.NewRNG(seed + uint64(worker))
			for i := int64(0); ; i++ {
				if i%ctxCheckInterval == 0 && runCtx.Err() != nil {
					return
				}
				key := rng.Int63n(cfg.KeySpace)
				if rng.Int63n(100) >= int64(cfg.WritePercent) {
					cnt.lookups.Add(1)
					c.Get(key)
					continue
				}
				if rng.Int63n(2) == 0 {
					if ok, _ := c.Insert(key, &Payload{Worker: worker, Seq: i}); ok {
						cnt.inserted.Add(1)
					} else {
						cnt.rejected.Add(1)
					}
					continue
				}
				if _, ok := c.Remove(key); ok {
					cnt.removed.Add(1)
				} else {
					cnt.misses.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()
	rep := r.report(c, &cnt, time.Since(began))

	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("churn run interrupted: %w", err)
	}
	if err := r.verifyChurn(c, rep); err != nil {
		return rep, err
	}

	r.logger.Info("churn run finished",
		"ops", rep.Ops(),
		"live", rep.Inserted-rep.Removed,
		"elapsed", rep.Elapsed,
		"opsPerSecond", rep.OpsPerSecond())
	return rep, nil
}

func (r *Runner) verifyChurn(c sortedlist.Container[*Payload], rep *Report) error {
	if ic, ok := c.(integrityChecker); ok {
		// Each key has at most one physical node, live or marked.
		if err := ic.CheckIntegrity(int(r.cfg.KeySpace) + 1); err != nil {
			return err
		}
	}
	keys := c.ExportKeys()
	if err := checkAscending(keys); err != nil {
		return err
	}
	if live := rep.Inserted - rep.Removed; int64(len(keys)) != live {
		return fmt.Errorf("%w: %d keys exported, %d inserts minus removes", ErrMismatch, len(keys), live)
	}
	return nil
}
