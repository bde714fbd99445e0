package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// snapshotMagic identifies the default binary snapshot format: "mdb" plus a format version.
var snapshotMagic = []byte("mdb1")

// Snapshotter defines whole-file persistence for a Store mapping.
// Snapshot rewrites the entire mapping at the given location and Restore
// reads it back. Implementations must round-trip every value of the
// canonical value model.
type Snapshotter interface {

	// Snapshot writes the whole mapping to location, replacing any previous file.
	Snapshot(location string, data map[string]any) error

	// Restore reads a mapping previously written by Snapshot.
	Restore(location string) (map[string]any, error)
}

// BinarySnapshotter is the Store's native snapshot format: a four byte
// magic/version header followed by the protobuf encoding of the mapping as a
// structpb.Struct. It is the default used by Open.
type BinarySnapshotter struct{}

// Snapshot writes the mapping to location as a single binary blob.
func (BinarySnapshotter) Snapshot(location string, data map[string]any) error {
	st, err := structpb.NewStruct(data)
	if err != nil {
		return fmt.Errorf("BinarySnapshotter.Snapshot structpb.NewStruct: %w (%v)", ErrNotSerializable, err)
	}
	raw, err := proto.Marshal(st)
	if err != nil {
		return fmt.Errorf("BinarySnapshotter.Snapshot proto.Marshal: %w", err)
	}
	buf := make([]byte, 0, len(snapshotMagic)+len(raw))
	buf = append(buf, snapshotMagic...)
	buf = append(buf, raw...)
	if err := os.WriteFile(location, buf, 0o644); err != nil {
		return fmt.Errorf("BinarySnapshotter.Snapshot os.WriteFile: %w", err)
	}
	return nil
}

// Restore reads the mapping back from location. A missing header or an
// undecodable payload is reported as ErrCorruptSnapshot.
func (BinarySnapshotter) Restore(location string) (map[string]any, error) {
	raw, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("BinarySnapshotter.Restore %q: %w", location, ErrNotFound)
		}
		return nil, fmt.Errorf("BinarySnapshotter.Restore os.ReadFile: %w", err)
	}
	if len(raw) < len(snapshotMagic) || !bytes.Equal(raw[:len(snapshotMagic)], snapshotMagic) {
		return nil, fmt.Errorf("BinarySnapshotter.Restore %q: %w (bad header)", location, ErrCorruptSnapshot)
	}
	var st structpb.Struct
	if err := proto.Unmarshal(raw[len(snapshotMagic):], &st); err != nil {
		return nil, fmt.Errorf("BinarySnapshotter.Restore %q: %w (%v)", location, ErrCorruptSnapshot, err)
	}
	return st.AsMap(), nil
}
