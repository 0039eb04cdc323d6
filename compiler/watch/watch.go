// Package watch reruns a function whenever a schema file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"
)

// DefaultDebounce is the quiet period that ends a burst of file events.
const DefaultDebounce = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	// Debounce is the quiet period after the last event before fn runs.
	// Defaults to DefaultDebounce.
	Debounce time.Duration
	// OnError receives the errors returned by fn. Run keeps watching
	// after an error. Errors are dropped if OnError is nil.
	OnError func(error)
}

// Run calls fn once, then again every time the content of the file at path
// changes, until ctx is done. Editors that replace the file by rename are
// supported because the parent directory is watched. Events that leave the
// content unchanged do not trigger fn.
func Run(ctx context.Context, path string, fn func(context.Context) error, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	last, _ := digest(abs)
	run := func() {
		if err := fn(ctx); err != nil && opts.OnError != nil {
			opts.OnError(err)
		}
	}
	run()

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(opts.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(fmt.Errorf("watch: %w", err))
			}
		case <-timer.C:
			sum, err := digest(abs)
			if err != nil {
				// A rename in progress; the create that follows resets the timer.
				if !errors.Is(err, os.ErrNotExist) && opts.OnError != nil {
					opts.OnError(fmt.Errorf("watch: %w", err))
				}
				continue
			}
			if sum == last {
				continue
			}
			last = sum
			run()
		}
	}
}

// digest returns the BLAKE3 sum of the file at path.
func digest(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(data), nil
}
