// Package snapshot provides alternative whole-file snapshot backends for the
// store package.
package snapshot

import (
	"os"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"microdb/store"
)

var entriesBucket = []byte("entries")

// Bolt persists snapshots inside a bbolt database file, one bucket key per
// store key, each value protobuf-encoded as a structpb.Value. Writes go
// through bbolt's transaction machinery, so a snapshot replaces the previous
// one atomically at the page level.
type Bolt struct{}

// Snapshot rewrites the entries bucket with the given mapping.
func (Bolt) Snapshot(location string, data map[string]any) error {
	db, err := bolt.Open(location, 0o600, nil)
	if err != nil {
		return errors.Wrap(err, "Bolt.Snapshot: Open")
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil && err != bolt.ErrBucketNotFound {
			return errors.Wrap(err, "Bolt.Snapshot: DeleteBucket")
		}
		b, err := tx.CreateBucket(entriesBucket)
		if err != nil {
			return errors.Wrap(err, "Bolt.Snapshot: CreateBucket")
		}
		for key, value := range data {
			pv, err := structpb.NewValue(value)
			if err != nil {
				return errors.Wrapf(store.ErrNotSerializable, "Bolt.Snapshot: key %q: %s", key, err)
			}
			raw, err := proto.Marshal(pv)
			if err != nil {
				return errors.Wrap(err, "Bolt.Snapshot: Marshal")
			}
			if err := b.Put([]byte(key), raw); err != nil {
				return errors.Wrap(err, "Bolt.Snapshot: Put")
			}
		}
		return nil
	})
}

// Restore opens the database file read-only and rebuilds the mapping from the
// entries bucket.
func (Bolt) Restore(location string) (map[string]any, error) {
	if _, err := os.Stat(location); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(store.ErrNotFound, "Bolt.Restore: %s", location)
		}
		return nil, errors.Wrap(err, "Bolt.Restore: Stat")
	}

	db, err := bolt.Open(location, 0o600, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrapf(store.ErrCorruptSnapshot, "Bolt.Restore: Open: %s", err)
	}
	defer db.Close()

	data := make(map[string]any)
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return errors.Wrap(store.ErrCorruptSnapshot, "Bolt.Restore: missing entries bucket")
		}
		return b.ForEach(func(k, v []byte) error {
			var pv structpb.Value
			if err := proto.Unmarshal(v, &pv); err != nil {
				return errors.Wrapf(store.ErrCorruptSnapshot, "Bolt.Restore: key %q: %s", k, err)
			}
			data[string(k)] = pv.AsInterface()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
