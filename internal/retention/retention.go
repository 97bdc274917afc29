// Package retention deletes compressed artifacts older than the retention window.
package retention

import (
	"context"
	"path/filepath"
	"time"

	"github.com/raoulx24/log-janitor/internal/config"
	"github.com/raoulx24/log-janitor/internal/fs"
	"github.com/raoulx24/log-janitor/internal/gate"
	"github.com/raoulx24/log-janitor/internal/glob"
	"github.com/raoulx24/log-janitor/internal/logging"
	"github.com/raoulx24/log-janitor/internal/summary"
)

type Sweeper struct {
	cfg *config.Config
	fs  fs.FS
	log logging.Logger
	now func() time.Time
}

// New creates a sweeper. A nil filesystem uses fs.New and a nil clock uses time.Now.
func New(cfg *config.Config, filesystem fs.FS, log logging.Logger, now func() time.Time) *Sweeper {
	if filesystem == nil {
		filesystem = fs.New(cfg.CompressionLevel)
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		cfg: cfg,
		fs:  filesystem,
		log: log.With("component", "retention"),
		now: now,
	}
}

// Pattern derives the artifact pattern swept for a configured pattern: the directory part is kept,
// the base name becomes *.*.gz with timestamp suffixes or <base>.gz without.
// With timestamp suffixes every artifact in the directory tree is in scope, including ones
// produced for other patterns sharing the directory.
func Pattern(pattern string, cfg *config.Config) string {
	dir := filepath.Dir(pattern)
	ext := cfg.CompressionExt()
	if cfg.TimestampSuffix.Enabled {
		return filepath.Join(dir, "*.*"+ext)
	}
	return filepath.Join(dir, filepath.Base(pattern)+ext)
}

// Run sweeps the artifacts derived from pattern. Deletion failures are counted and the sweep continues.
// It returns a *config.Error for an unusable timestamp type, or the context error when ctx ends.
func (s *Sweeper) Run(ctx context.Context, pattern string, sum *summary.Summary) error {
	target := Pattern(pattern, s.cfg)
	name := filepath.Base(target)

	dirs, err := glob.ExpandDirs(target)
	if err != nil {
		s.log.Error("invalid pattern", "pattern", target, "error", err)
		return nil
	}
	if len(dirs) == 0 {
		s.log.Debug("no directories to sweep", "pattern", target)
		return nil
	}

	for _, dir := range dirs {
		files, err := glob.Find(dir, name)
		if err != nil {
			s.log.Error("scanning directory", "dir", dir, "error", err)
			continue
		}

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.sweepFile(ctx, path, sum); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sweeper) sweepFile(ctx context.Context, path string, sum *summary.Summary) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		s.log.Debug("artifact vanished", "path", path, "error", err)
		return nil
	}

	ts, err := gate.SelectTime(info, s.cfg.TimestampType)
	if err != nil {
		return err
	}
	if s.now().Sub(ts) <= s.cfg.RetentionWindow() {
		return nil
	}

	if s.cfg.DryRun {
		s.log.Info("would delete", "path", path)
		sum.Record(summary.Deleted)
		sum.AddReclaimedBytes(info.Size)
		return nil
	}

	if err := s.fs.Remove(ctx, path); err != nil {
		s.log.Error("delete failed", "path", path, "error", err)
		sum.Record(summary.DeleteError)
		return nil
	}

	s.log.Info("deleted", "path", path)
	sum.Record(summary.Deleted)
	sum.AddReclaimedBytes(info.Size)
	return nil
}
