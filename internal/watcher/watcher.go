// Package watcher reports writes to any name of a shared resource and reads
// the content back through every name, which makes shared-inode visibility
// observable: a write seen through one name shows up through all of them.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sharedcfg-labs/sharedcfg/internal/document"
)

// Loader reads the document through one name.
type Loader func(name string) (document.Document, error)

// Snapshot is the content read through one name after a change.
type Snapshot struct {
	Name string
	Doc  document.Document
	Err  error
}

// Change is delivered once per debounced burst of writes.
type Change struct {
	// Trigger is the name the write was observed through.
	Trigger   string
	Snapshots []Snapshot
}

// Watcher watches every name of a resource.
type Watcher struct {
	names    []string
	load     Loader
	onChange func(Change)
	debounce time.Duration
	logger   *slog.Logger
	ready    chan struct{}
	once     sync.Once
}

// New creates a watcher over names. onChange runs on the watch goroutine.
func New(names []string, load Loader, onChange func(Change)) *Watcher {
	return &Watcher{
		names:    names,
		load:     load,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		ready:    make(chan struct{}),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger for watch errors.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	w.logger = l
	return w
}

// Ready is closed once every directory is being watched, or once Watch has
// given up trying.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch blocks until ctx is cancelled or the underlying watcher fails.
//
// The parent directories are watched rather than the files: inotify keys file
// watches by inode, so several hard links would collapse into one watch and
// the triggering name would be lost.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.markReady()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	wanted := make(map[string]bool, len(w.names))
	dirs := make(map[string]bool)
	for _, name := range w.names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}
	w.markReady()
	w.logger.Debug("watching names", "names", len(wanted), "dirs", len(dirs))

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !wanted[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.emit(pending)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) markReady() {
	w.once.Do(func() { close(w.ready) })
}

func (w *Watcher) emit(trigger string) {
	change := Change{Trigger: trigger, Snapshots: make([]Snapshot, 0, len(w.names))}
	for _, name := range w.names {
		doc, err := w.load(name)
		change.Snapshots = append(change.Snapshots, Snapshot{Name: name, Doc: doc, Err: err})
	}
	w.onChange(change)
}
