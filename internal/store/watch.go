package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// Watcher calls back when the store file changes on disk, e.g. after
// `spot-trainer add` from another terminal.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	base      string
	onChange  func()
	log       *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching the directory containing path. onChange runs on
// the watcher goroutine after writes settle.
func Watch(path string, onChange func(), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: atomic saves replace the file, which would
	// drop a watch on the file itself.
	if err := fsW.Add(filepath.Dir(path)); err != nil {
		fsW.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		fsWatcher: fsW,
		base:      filepath.Base(path),
		onChange:  onChange,
		log:       log,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// preferences.db-wal and friends count as the database
			if !strings.HasPrefix(filepath.Base(event.Name), w.base) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, w.onChange)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("store watcher", "err", err)
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}
