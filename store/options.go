package store

// StoreOption is a type for functions that configure a Store.
// These functions are intended to be used with the Open function
// to create a customized Store instance.
type StoreOption func(s *Store)

// WithPreloadOption returns a StoreOption that controls whether Open reads an
// existing snapshot at the store's location into memory. Preloading is on by
// default.
func WithPreloadOption(preload bool) StoreOption {
	return func(s *Store) {
		s.preload = preload
	}
}

// WithMustExistOption returns a StoreOption that makes Open fail with
// ErrNotFound when preloading and no snapshot file exists at the location.
// It has no effect when preloading is disabled.
func WithMustExistOption(mustExist bool) StoreOption {
	return func(s *Store) {
		s.mustExist = mustExist
	}
}

// WithSnapshotterOption returns a StoreOption that replaces the default
// binary snapshot format with another backend.
//
// Example:
//
//	Open("data.db", WithSnapshotterOption(snapshot.Bolt{}))
func WithSnapshotterOption(sn Snapshotter) StoreOption {
	return func(s *Store) {
		s.snapshotter = sn
	}
}
