package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// WorkoutsKey is the preference key holding the exercise list
const WorkoutsKey = "savedWorkouts"

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// KV is a small preference store
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Path() string
	Close() error
}

// Open opens the named backend rooted at dir
func Open(backend, dir string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return OpenFile(dir)
	case BackendSQLite:
		return OpenSQLite(dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// Workouts persists the exercise list as a JSON array under WorkoutsKey
type Workouts struct {
	kv  KV
	log *slog.Logger
}

// NewWorkouts wraps kv
func NewWorkouts(kv KV, log *slog.Logger) *Workouts {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Workouts{kv: kv, log: log}
}

// Load returns the saved list. Missing, unreadable or malformed data all
// yield an empty list.
func (w *Workouts) Load() []string {
	data, ok, err := w.kv.Get(WorkoutsKey)
	if err != nil {
		w.log.Warn("reading workouts", "err", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var workouts []string
	if err := json.Unmarshal(data, &workouts); err != nil {
		w.log.Warn("decoding workouts", "err", err)
		return []string{}
	}
	if workouts == nil {
		return []string{}
	}
	return workouts
}

// Save replaces the saved list
func (w *Workouts) Save(workouts []string) error {
	if workouts == nil {
		workouts = []string{}
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("encoding workouts: %w", err)
	}
	if err := w.kv.Set(WorkoutsKey, data); err != nil {
		w.log.Error("saving workouts", "err", err)
		return fmt.Errorf("saving workouts: %w", err)
	}
	return nil
}

// Clear deletes the saved list
func (w *Workouts) Clear() error {
	if err := w.kv.Delete(WorkoutsKey); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}

// Path returns the file backing the list, for watching
func (w *Workouts) Path() string {
	return w.kv.Path()
}
