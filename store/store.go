// Package store implements a minimal embedded key-value store: an in-memory
// mapping from string keys to JSON-universe values, backed by whole-file
// snapshot persistence.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store holds the key-value mapping and the location of its snapshot file.
// It is the sole owner of the mapping: values handed out are deep copies and
// values taken in are normalized into fresh canonical form.
//
// A Store is designed for single-process, single-writer use and performs no
// internal locking; callers that share one across goroutines must serialize
// their own access.
type Store struct {
	data        map[string]any
	location    string
	snapshotter Snapshotter
	preload     bool
	mustExist   bool
}

// Open creates a Store associated with the snapshot file at location.
// By default an existing snapshot is preloaded into memory and an absent file
// just means an empty mapping; WithMustExistOption makes absence fatal with
// ErrNotFound. A file that exists but cannot be decoded fails with
// ErrCorruptSnapshot. Open never creates the file itself.
func Open(location string, options ...StoreOption) (*Store, error) {
	store := &Store{
		data:        make(map[string]any),
		location:    location,
		snapshotter: BinarySnapshotter{},
		preload:     true,
	}

	for _, opt := range options {
		opt(store)
	}

	if !store.preload {
		return store, nil
	}

	if _, err := os.Stat(location); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Store.Open os.Stat: %w", err)
		}
		if store.mustExist {
			return nil, fmt.Errorf("Store.Open %q: %w", location, ErrNotFound)
		}
		log.Debug().Str("location", location).Msg("microdb open: no snapshot to preload, starting empty")
		return store, nil
	}

	data, err := store.snapshotter.Restore(location)
	if err != nil {
		return nil, fmt.Errorf("Store.Open restore: %w", err)
	}
	store.data = data
	return store, nil
}

// Save writes the entire mapping as a snapshot to the store's location,
// overwriting any existing file. The write is a synchronous whole-file
// rewrite; there is no temp-file-and-rename step.
func (s *Store) Save() error {
	if err := s.snapshotter.Snapshot(s.location, s.data); err != nil {
		return fmt.Errorf("Store.Save: %w", err)
	}
	return nil
}

// SaveTo writes a snapshot to an override location. The store's own location
// is left unchanged.
func (s *Store) SaveTo(location string) error {
	if err := s.snapshotter.Snapshot(location, s.data); err != nil {
		return fmt.Errorf("Store.SaveTo: %w", err)
	}
	return nil
}

// Purge deletes the snapshot file at the store's location. It reports whether
// a file was removed and never touches the in-memory mapping.
func (s *Store) Purge() (bool, error) {
	if err := os.Remove(s.location); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("Store.Purge os.Remove: %w", err)
	}
	return true, nil
}

// Rename points the store at a new snapshot location. When save is true a
// snapshot is written there immediately; the file at the old location, if
// any, is left behind.
func (s *Store) Rename(location string, save bool) error {
	s.location = location
	if save {
		return s.Save()
	}
	return nil
}

// Add inserts a key-value pair only when the key is absent. It returns false,
// leaving the stored value untouched, when the key already exists. When save
// is true a successful insert is persisted immediately.
func (s *Store) Add(key string, value any, save bool) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	v, err := normalizeValue(value)
	if err != nil {
		return false, fmt.Errorf("Store.Add: %w", err)
	}
	s.data[key] = v
	if save {
		return true, s.Save()
	}
	return true, nil
}

// AddAuto generates a random 128-bit key, inserts the value under it and
// returns the key. A collision with an existing key is treated as impossible
// and reported as an error in the case it ever happens.
func (s *Store) AddAuto(value any, save bool) (string, error) {
	key := uuid.NewString()
	ok, err := s.Add(key, value, save)
	if !ok {
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("Store.AddAuto generated key %q already present", key)
	}
	return key, err
}

// Update replaces the value stored under key only when the key is already
// present; it returns false when the key is absent. When save is true a
// successful update is persisted immediately.
func (s *Store) Update(key string, value any, save bool) (bool, error) {
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	v, err := normalizeValue(value)
	if err != nil {
		return false, fmt.Errorf("Store.Update: %w", err)
	}
	s.data[key] = v
	if save {
		return true, s.Save()
	}
	return true, nil
}

// Delete removes key from the mapping, returning false when it is absent.
// When save is true a successful delete is persisted immediately.
func (s *Store) Delete(key string, save bool) (bool, error) {
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	if save {
		return true, s.Save()
	}
	return true, nil
}

// Len returns the number of entries in the mapping.
func (s *Store) Len() int {
	return len(s.data)
}

// Keys returns a sorted slice of all keys currently in the Store.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Location returns the path of the associated snapshot file.
func (s *Store) Location() string {
	return s.location
}
