// Package exercise manages the user's ordered list of exercise names.
package exercise

import (
	"log/slog"
	"slices"
	"strings"
)

// Store persists the list
type Store interface {
	Load() []string
	Save(names []string) error
}

// List is the in-memory exercise list, written through to its Store on
// every change. Duplicates are allowed.
type List struct {
	store Store
	names []string
	log   *slog.Logger
}

// New loads the list from store
func New(store Store, log *slog.Logger) *List {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := &List{store: store, log: log}
	l.Reload()
	return l
}

// Reload replaces the in-memory list with what the store holds
func (l *List) Reload() {
	l.names = l.store.Load()
}

// Add appends name. Blank input is rejected and reported as false.
// The list is re-read first so entries written by another process survive.
func (l *List) Add(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	l.Reload()
	l.names = append(l.names, name)
	l.log.Debug("exercise added", "name", name, "count", len(l.names))
	return true, l.store.Save(l.names)
}

// Remove deletes every entry equal to the trimmed name and returns how many
// were removed. Blank input is ignored.
func (l *List) Remove(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	l.Reload()
	before := len(l.names)
	l.names = slices.DeleteFunc(l.names, func(s string) bool { return s == name })
	removed := before - len(l.names)
	l.log.Debug("exercise removed", "name", name, "matches", removed)
	// saved even when nothing matched
	return removed, l.store.Save(l.names)
}

// Names returns a copy of the list
func (l *List) Names() []string {
	return slices.Clone(l.names)
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.names)
}

// At returns the entry at i, or false when i is out of range
func (l *List) At(i int) (string, bool) {
	if i < 0 || i >= len(l.names) {
		return "", false
	}
	return l.names[i], true
}
