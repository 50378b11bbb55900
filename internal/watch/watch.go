// Package watch re-runs the sprite pipeline whenever an Aseprite file below
// a directory is saved.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/blake2b"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/output"
	"github.com/gmhelper/gmhelper/internal/project"
)

// ProcessFunc handles one changed asset.
type ProcessFunc func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	Directory  string
	Extensions []string
	Debounce   time.Duration
	// Start processes every existing asset before waiting for changes.
	Start bool
}

// Watcher processes changed assets one at a time, since only one host
// session may run.
type Watcher struct {
	opts    Options
	process ProcessFunc
	out     *output.Writer
	digests map[string][blake2b.Size256]byte

	// ready, when set, is closed once the directory tree is watched.
	ready chan struct{}
}

// New creates a Watcher.
func New(opts Options, process ProcessFunc, out *output.Writer) *Watcher {
	return &Watcher{
		opts:    opts,
		process: process,
		out:     out,
		digests: make(map[string][blake2b.Size256]byte),
	}
}

// Run watches until ctx is cancelled. It returns early only when the watch
// cannot be set up or processing hits an environment error, such as a
// missing aseprite binary, that every later run would hit too.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filepath.Abs(w.opts.Directory)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Configf("watch directory: %v", err)
	}
	if !info.IsDir() {
		return errors.Configf("watch directory %s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to start file watcher")
	}
	defer fsw.Close()

	if err := w.addTree(fsw, dir); err != nil {
		return err
	}
	if w.ready != nil {
		close(w.ready)
	}

	if w.opts.Start {
		assets, err := project.DiscoverAssets(dir, w.opts.Extensions)
		if err != nil {
			return err
		}
		w.out.Info("Processing %d existing asset(s)...", len(assets))
		for _, path := range assets {
			if err := w.handle(ctx, path); err != nil {
				return err
			}
		}
	}

	w.out.Info("Watching %s for changes (Ctrl+C to stop)...", dir)

	pending := newDebouncer(w.opts.Debounce)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	arm := func() {
		if next, ok := pending.Next(); ok {
			timer.Reset(time.Until(next))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			for _, path := range w.relevant(fsw, ev) {
				pending.Add(path, time.Now())
			}
			arm()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.out.Warning("watcher: %v", err)

		case <-timer.C:
			for _, path := range pending.Due(time.Now()) {
				if ctx.Err() != nil {
					return nil
				}
				if err := w.handle(ctx, path); err != nil {
					return err
				}
			}
			arm()
		}
	}
}

// relevant returns the assets an event may have changed. A new directory is
// watched and its existing assets are returned.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, ev fsnotify.Event) []string {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return nil
	}

	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if project.SkipDir(filepath.Base(ev.Name)) {
			return nil
		}
		if err := w.addTree(fsw, ev.Name); err != nil {
			w.out.Warning("%v", err)
			return nil
		}
		assets, err := project.DiscoverAssets(ev.Name, w.opts.Extensions)
		if err != nil {
			w.out.Warning("%v", err)
		}
		return assets
	}

	if !project.HasExtension(ev.Name, w.opts.Extensions) {
		return nil
	}
	return []string{ev.Name}
}

// addTree watches dir and every directory below it that is not skipped.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && project.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.out.Debug("watching %s", path)
		return nil
	})
}

// handle processes path unless its content is unchanged since the last
// successful run. Failures are reported and swallowed, except environment
// errors.
func (w *Watcher) handle(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		// Saved through a temp file and renamed, or deleted.
		w.out.Debug("skipping %s: %v", path, err)
		return nil
	}
	sum := blake2b.Sum256(data)
	if prev, ok := w.digests[path]; ok && prev == sum {
		w.out.Debug("skipping %s: content unchanged", path)
		return nil
	}

	if err := w.process(ctx, path); err != nil {
		if errors.IsKind(err, errors.KindEnvironment) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		w.out.ErrorPrefix("%v", err)
		delete(w.digests, path)
		return nil
	}
	w.digests[path] = sum
	return nil
}
