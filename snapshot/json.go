package snapshot

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"microdb/store"
)

// JSONFile persists snapshots as an indented JSON object, for stores whose
// snapshot file should stay human-readable. Malformed content restores as
// ErrCorruptSnapshot: the file is a snapshot, not an interchange document.
type JSONFile struct{}

// Snapshot writes the mapping to location as a JSON object.
func (JSONFile) Snapshot(location string, data map[string]any) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrapf(store.ErrNotSerializable, "JSONFile.Snapshot: Marshal: %s", err)
	}
	if err := os.WriteFile(location, raw, 0o644); err != nil {
		return errors.Wrap(err, "JSONFile.Snapshot: WriteFile")
	}
	return nil
}

// Restore parses the JSON object at location back into a mapping.
func (JSONFile) Restore(location string) (map[string]any, error) {
	raw, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(store.ErrNotFound, "JSONFile.Restore: %s", location)
		}
		return nil, errors.Wrap(err, "JSONFile.Restore: ReadFile")
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(store.ErrCorruptSnapshot, "JSONFile.Restore: Unmarshal: %s", err)
	}
	if data == nil {
		return nil, errors.Wrap(store.ErrCorruptSnapshot, "JSONFile.Restore: top-level value is not an object")
	}
	return data, nil
}
