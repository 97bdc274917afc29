// Package compressor turns a pattern into compressed artifacts for every eligible file it matches.
package compressor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/raoulx24/log-janitor/internal/config"
	"github.com/raoulx24/log-janitor/internal/fs"
	"github.com/raoulx24/log-janitor/internal/gate"
	"github.com/raoulx24/log-janitor/internal/glob"
	"github.com/raoulx24/log-janitor/internal/logging"
	"github.com/raoulx24/log-janitor/internal/summary"
)

// Engine compresses eligible files. It is safe for concurrent use; a given source
// path is never compressed by two goroutines at once.
type Engine struct {
	cfg  *config.Config
	fs   fs.FS
	gate *gate.Gate
	log  logging.Logger
	now  func() time.Time

	locks pathLocks
}

// New creates an engine. A nil filesystem uses fs.New and a nil clock uses time.Now.
func New(cfg *config.Config, filesystem fs.FS, g *gate.Gate, log logging.Logger, now func() time.Time) *Engine {
	if filesystem == nil {
		filesystem = fs.New(cfg.CompressionLevel)
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:  cfg,
		fs:   filesystem,
		gate: g,
		log:  log.With("component", "compressor"),
		now:  now,
	}
}

// Run processes every file matched by pattern, recording one outcome per candidate in sum.
// It returns a *config.Error for an unusable timestamp type, or the context error when
// ctx ends between files. Per-file failures are only counted.
func (e *Engine) Run(ctx context.Context, pattern string, sum *summary.Summary) error {
	paths, err := glob.Expand(pattern)
	if err != nil {
		e.log.Error("invalid pattern", "pattern", pattern, "error", err)
		return nil
	}

	candidates := e.withoutCompressed(paths)
	if len(candidates) == 0 {
		e.log.Info("no files to compress", "pattern", pattern)
		return nil
	}

	e.log.Debug("candidates found", "pattern", pattern, "count", len(candidates))

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.handle(ctx, path, sum); err != nil {
			return err
		}
	}
	return nil
}

// Suffix returns the extension appended to a file compressed at t.
func (e *Engine) Suffix(t time.Time) string {
	ext := e.cfg.CompressionExt()
	if !e.cfg.TimestampSuffix.Enabled {
		return ext
	}
	return "." + strftime.Format(e.cfg.TimestampSuffix.Format, t) + ext
}

func (e *Engine) handle(ctx context.Context, path string, sum *summary.Summary) error {
	unlock := e.locks.lock(path)
	defer unlock()

	info, err := e.fs.Stat(path)
	if err != nil {
		// rotated away by the application since expansion
		e.log.Debug("candidate vanished", "path", path, "error", err)
		return nil
	}
	c := gate.NewCandidate(info)

	verdict, err := e.gate.Check(c)
	if err != nil {
		return err
	}

	switch verdict {
	case gate.Blacklisted:
		e.log.Debug("skipping blacklisted file", "path", path)
		sum.Record(summary.SkippedBlacklisted)
		return nil
	case gate.Open:
		e.log.Info("skipping open file", "path", path)
		sum.Record(summary.SkippedOpen)
		return nil
	case gate.Recent:
		e.log.Debug("skipping recent file", "path", path)
		sum.Record(summary.SkippedRecent)
		return nil
	}

	suffix := e.Suffix(e.now())
	target := path + suffix

	exists, err := e.fs.Exists(target)
	if err != nil {
		e.log.Error("cannot check target", "path", path, "target", target, "error", err)
		sum.Record(summary.CompressError)
		return nil
	}
	if exists {
		e.log.Info("already compressed", "path", path, "target", target)
		sum.Record(summary.AlreadyCompressed)
		return nil
	}

	if e.cfg.DryRun {
		e.log.Info("would compress", "path", path, "target", target)
		sum.Record(summary.Compressed)
		sum.AddCompressedBytes(info.Size, 0)
		return nil
	}

	res, err := e.fs.Compress(ctx, path, suffix)
	switch {
	case errors.Is(err, fs.ErrTargetExists):
		e.log.Info("already compressed", "path", path, "target", target)
		sum.Record(summary.AlreadyCompressed)
	case err != nil:
		e.log.Error("compression failed", "path", path, "error", err)
		sum.Record(summary.CompressError)
	default:
		e.log.Info("compressed", "path", path, "target", res.Target, "bytes_in", res.BytesIn, "bytes_out", res.BytesOut)
		sum.Record(summary.Compressed)
		sum.AddCompressedBytes(res.BytesIn, res.BytesOut)
	}
	return nil
}

// withoutCompressed drops paths that already carry a compressed extension.
func (e *Engine) withoutCompressed(paths []string) []string {
	exts := append([]string{e.cfg.CompressionExt()}, e.cfg.CompressedExtensions...)

	out := make([]string, 0, len(paths))
next:
	for _, p := range paths {
		for _, ext := range exts {
			if ext != "" && strings.HasSuffix(p, ext) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// pathLocks serialises work on the same source path across workers.
type pathLocks struct {
	mu   sync.Mutex
	held map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func (l *pathLocks) lock(path string) func() {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*pathLock)
	}
	pl, ok := l.held[path]
	if !ok {
		pl = &pathLock{}
		l.held[path] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.held, path)
		}
		l.mu.Unlock()
	}
}
