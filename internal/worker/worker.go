// Package worker runs compression then retention for every configured pattern.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/raoulx24/log-janitor/internal/config"
	"github.com/raoulx24/log-janitor/internal/logging"
	"github.com/raoulx24/log-janitor/internal/summary"
)

// Worker owns the run configuration and the run summary.
type Worker struct {
	cfg        *config.Config
	log        logging.Logger
	compressor Compressor
	sweeper    Sweeper
}

// New creates a worker driving the given compression and retention phases.
func New(cfg *config.Config, log logging.Logger, c Compressor, s Sweeper) *Worker {
	return &Worker{
		cfg:        cfg,
		log:        log.With("component", "worker"),
		compressor: c,
		sweeper:    s,
	}
}

// RunAll processes every pattern and returns the accumulated summary.
//
// With a single worker patterns run strictly in configured order. With more, patterns are
// distributed over a bounded pool. A *config.Error aborts the run and is returned with a nil
// summary. When ctx ends (deadline or signal) the remaining patterns are skipped and the
// partial summary is returned without error.
func (w *Worker) RunAll(ctx context.Context) (*summary.Summary, error) {
	if err := config.CheckTimestampType(w.cfg.TimestampType); err != nil {
		return nil, err
	}

	sum := summary.New()

	var err error
	if w.cfg.Workers <= 1 || len(w.cfg.Patterns) <= 1 {
		err = w.runSequential(ctx, sum)
	} else {
		err = w.runPool(ctx, sum)
	}

	switch {
	case err == nil:
		return sum, nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		w.log.Warn("run stopped early", "reason", err)
		return sum, nil
	default:
		return nil, err
	}
}

// Handle runs compression and then retention for one pattern and merges its counters into sum.
func (w *Worker) Handle(ctx context.Context, job Job, sum *summary.Summary) error {
	log := w.log.With("pattern", job.Pattern)
	log.Debug("processing pattern", "index", job.Index)

	local := summary.New()
	defer sum.Merge(local)

	if err := w.compressor.Run(ctx, job.Pattern, local); err != nil {
		return err
	}
	if err := w.sweeper.Run(ctx, job.Pattern, local); err != nil {
		return err
	}

	log.Info("pattern done",
		"compressed", local.Count(summary.Compressed),
		"already_compressed", local.Count(summary.AlreadyCompressed),
		"skipped_open", local.Count(summary.SkippedOpen),
		"skipped_recent", local.Count(summary.SkippedRecent),
		"skipped_blacklisted", local.Count(summary.SkippedBlacklisted),
		"compress_errors", local.Count(summary.CompressError),
		"deleted", local.Count(summary.Deleted),
		"delete_errors", local.Count(summary.DeleteError),
	)
	return nil
}

func (w *Worker) runSequential(ctx context.Context, sum *summary.Summary) error {
	for i, p := range w.cfg.Patterns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Handle(ctx, Job{Index: i, Pattern: p}, sum); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) runPool(ctx context.Context, sum *summary.Summary) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := NewQueue(len(w.cfg.Patterns))
	for i, p := range w.cfg.Patterns {
		q.Push(Job{Index: i, Pattern: p})
	}
	q.Close()

	n := min(w.cfg.Workers, len(w.cfg.Patterns))
	w.log.Debug("starting worker pool", "workers", n)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := RunLoop(ctx, w, q, sum); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	// parent deadline or cancellation
	return ctx.Err()
}
