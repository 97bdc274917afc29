package fs

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// writeGuard records whether a file received write, rename or remove events while open for compression.
// When fsnotify is unavailable the guard never reports a change and the stat comparison in
// compressAtomic is the only check.
type writeGuard struct {
	w        *fsnotify.Watcher
	modified atomic.Bool
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func watchWrites(path string) *writeGuard {
	g := &writeGuard{done: make(chan struct{})}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return g
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return g
	}
	g.w = w

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		for {
			select {
			case <-g.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
					g.modified.Store(true)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return g
}

// Modified reports whether a relevant event was seen so far.
func (g *writeGuard) Modified() bool {
	return g.modified.Load()
}

func (g *writeGuard) Close() {
	g.once.Do(func() {
		close(g.done)
		if g.w != nil {
			_ = g.w.Close()
		}
		g.wg.Wait()
	})
}
