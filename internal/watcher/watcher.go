// Package watcher re-ingests a photo tree when images appear, disappear or
// are renamed below it. Bursts of filesystem events are debounced into a
// single notification.
package watcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jpl-au/imgtag/internal/filename"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/service"
)

// Watcher monitors a directory tree for image changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	cfg       Config
	onChange  chan struct{}
	errs      chan error
	done      chan struct{}
}

// Config holds watcher options.
type Config struct {
	Root       string
	Debounce   time.Duration
	SkipDirs   []string // directory names never watched
	SkipHidden bool
}

// New creates a watcher for cfg.Root. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		cfg:       cfg,
		onChange:  make(chan struct{}, 1),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the root and every directory below it. The returned
// channel receives a signal once a burst of relevant events has settled.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.addTree(w.cfg.Root); err != nil {
		return nil, err
	}
	go w.loop()
	return w.onChange, nil
}

// Errors reports watch errors. Only the most recent undelivered error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addTree registers dir and its subdirectories with fsnotify, which does
// not recurse on its own.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.skip(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(p); err != nil {
			return fmt.Errorf("watching directory %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) skip(name string) bool {
	if w.cfg.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return slices.Contains(w.cfg.SkipDirs, name)
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant reports whether event can change what an ingest would find. New
// directories are added to the watch set as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if w.skip(name) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				select {
				case w.errs <- err:
				default:
				}
			}
			return true
		}
	}
	_, ok := filename.Parse(name)
	return ok
}

// Run re-ingests root through svc after every settled burst of changes
// until ctx is cancelled. Known images keep their history.
func Run(ctx context.Context, out io.Writer, svc service.Service, cfg Config) error {
	w, err := New(cfg)
	if err != nil {
		return err
	}
	defer w.Stop()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %s\n", cfg.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			fmt.Fprintf(out, "watch error: %v\n", err)
		case <-changes:
			res, err := svc.Ingest(ctx, io.Discard, cfg.Root, ingest.Options{KeepKnown: true, SkipDirs: cfg.SkipDirs})
			log.Event("watch:ingest", "ingest").
				Path(cfg.Root).
				Detail("images", res.Images).
				Detail("kept", res.Kept).
				Write(err)
			if err != nil {
				fmt.Fprintf(out, "re-ingest failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Re-ingested %s: %d new, %d unchanged\n", res.Root, res.Images, res.Kept)
		}
	}
}
