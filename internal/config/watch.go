package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inputmask/internal/schedule"
)

// DefaultDebounce is the quiet period before a changed file is reloaded.
const DefaultDebounce = 100 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	ready    func()
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) { o.debounce = d }
}

// WithReady is called once the watch is established.
func WithReady(fn func()) WatchOption {
	return func(o *watchOptions) { o.ready = fn }
}

// Watch reloads path whenever it is written, created or renamed into
// place, until ctx is done. fn receives the reloaded document, or the
// error that prevented loading it; fn is never called concurrently with
// itself. The directory is watched so that editors replacing the file
// atomically are seen.
func Watch(ctx context.Context, path string, fn func(*Document, error), opts ...WatchOption) error {
	o := watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	var mu sync.Mutex
	deliver := func(doc *Document, err error) {
		mu.Lock()
		defer mu.Unlock()
		fn(doc, err)
	}

	reload := schedule.NewDebouncer(o.debounce, func() { deliver(Load(abs)) })
	defer reload.Cancel()

	if o.ready != nil {
		o.ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload.Call()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			deliver(nil, fmt.Errorf("watching %s: %w", abs, err))
		}
	}
}
