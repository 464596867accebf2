package store

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const fileStoreName = "preferences.gob"

// FileKV is a key-value store kept in a single gob file. Every Set rewrites
// the file so other processes (and the watcher) see changes immediately.
type FileKV struct {
	path    string
	entries map[string][]byte
	mu      sync.Mutex
}

// OpenFile creates or loads the store in dir
func OpenFile(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}

	kv := &FileKV{
		path:    filepath.Join(dir, fileStoreName),
		entries: make(map[string][]byte),
	}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) load() error {
	f, err := os.Open(kv.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	entries := make(map[string][]byte)
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		// A truncated or foreign file is treated as empty
		return nil
	}
	kv.entries = entries
	return nil
}

// Get returns the value for key, re-reading the file first so writes from
// other processes are picked up.
func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := kv.load(); err != nil {
		return nil, false, err
	}
	v, ok := kv.entries[key]
	return v, ok, nil
}

// Set stores value under key and persists the file
func (kv *FileKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.entries[key] = value
	return kv.save()
}

// Delete removes key and persists the file
func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.entries, key)
	return kv.save()
}

func (kv *FileKV) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(kv.path), ".prefs-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := gob.NewEncoder(tmp).Encode(kv.entries); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), kv.path)
}

// Path returns the backing file
func (kv *FileKV) Path() string {
	return kv.path
}

// Close is a no-op; every Set is already on disk
func (kv *FileKV) Close() error {
	return nil
}
