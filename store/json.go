package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
)

// ExportJSON writes the entire mapping to filename as a single indented JSON
// object whose fields are the keys. Canonical values are always encodable, so
// ErrNotSerializable here indicates a value that bypassed normalization.
func (s *Store) ExportJSON(filename string) error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("Store.ExportJSON json.MarshalIndent: %w (%v)", ErrNotSerializable, err)
	}
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		return fmt.Errorf("Store.ExportJSON os.WriteFile: %w", err)
	}
	return nil
}

// ImportJSON replaces the entire mapping with the parsed contents of
// filename. When save is true the new mapping is immediately written to the
// store's snapshot at its default location.
func (s *Store) ImportJSON(filename string, save bool) error {
	doc, err := readDocument(filename)
	if err != nil {
		return fmt.Errorf("Store.ImportJSON: %w", err)
	}
	s.data = doc
	if save {
		return s.Save()
	}
	return nil
}

// MergeJSON applies the entries of a JSON document to the mapping one key at
// a time, logging rejected entries instead of failing the whole merge.
//
// Known defect, kept for compatibility with the original MicroDB: the branch
// selection is inverted. Keys that already exist are re-applied through the
// insert-only Add, which always rejects a present key, and absent keys with
// allowOverwrite go through the update-only Update, which always rejects an
// absent key. Every entry is therefore rejected and the mapping never
// changes. Use MergeJSONUpsert for the intended semantics.
func (s *Store) MergeJSON(filename string, save, allowOverwrite bool) error {
	doc, err := readDocument(filename)
	if err != nil {
		return fmt.Errorf("Store.MergeJSON: %w", err)
	}
	for _, key := range sortedKeys(doc) {
		var applied bool
		var applyErr error
		if _, found := s.data[key]; found {
			applied, applyErr = s.Add(key, doc[key], save)
		} else if allowOverwrite {
			applied, applyErr = s.Update(key, doc[key], save)
		}
		if applyErr != nil {
			log.Error().Str("key", key).Err(applyErr).Msg("microdb merge: failed to apply entry")
			continue
		}
		if !applied {
			log.Error().Str("key", key).Msg("microdb merge: entry rejected")
		}
	}
	if save {
		return s.Save()
	}
	return nil
}

// MergeJSONUpsert merges a JSON document with the corrected semantics: absent
// keys are inserted and present keys are overwritten only when allowOverwrite
// is set. Skipped entries are logged, never returned as errors.
func (s *Store) MergeJSONUpsert(filename string, save, allowOverwrite bool) error {
	doc, err := readDocument(filename)
	if err != nil {
		return fmt.Errorf("Store.MergeJSONUpsert: %w", err)
	}
	for _, key := range sortedKeys(doc) {
		var applied bool
		var applyErr error
		if _, found := s.data[key]; !found {
			applied, applyErr = s.Add(key, doc[key], save)
		} else if allowOverwrite {
			applied, applyErr = s.Update(key, doc[key], save)
		}
		if applyErr != nil {
			log.Error().Str("key", key).Err(applyErr).Msg("microdb merge: failed to apply entry")
			continue
		}
		if !applied {
			log.Error().Str("key", key).Msg("microdb merge: entry skipped")
		}
	}
	if save {
		return s.Save()
	}
	return nil
}

// readDocument parses filename as a JSON object in canonical value form.
func readDocument(filename string) (map[string]any, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", filename, ErrNotFound)
		}
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%q: %w (%v)", filename, ErrInvalidJSON, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%q: %w (top-level value is not an object)", filename, ErrInvalidJSON)
	}
	return doc, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
