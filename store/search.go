package store

import (
	"fmt"
	"regexp"
)

// Entry is a single key-value pair as returned by Find.
type Entry struct {
	Key   string
	Value any
}

// FindKey retrieves the value stored under key. The boolean result
// distinguishes a missing key from a stored nil value.
func (s *Store) FindKey(key string) (any, bool) {
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// FindKeys returns the values for the given keys in input order, silently
// skipping keys that are not present.
func (s *Store) FindKeys(keys []string) []any {
	values := make([]any, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			values = append(values, cloneValue(v))
		}
	}
	return values
}

// Find returns the entries matching the filter, sorted by key. A nil filter
// matches every entry; otherwise an entry matches when its key equals the
// filter or its value deep-equals the filter's canonical form.
func (s *Store) Find(filter any) []Entry {
	filterKey, filterIsString := filter.(string)

	var normalized any
	var normErr error
	if filter != nil {
		normalized, normErr = normalizeValue(filter)
	}

	found := make([]Entry, 0)
	for _, k := range s.Keys() {
		v := s.data[k]
		switch {
		case filter == nil:
		case filterIsString && filterKey == k:
		case normErr == nil && valueEqual(normalized, v):
		default:
			continue
		}
		found = append(found, Entry{Key: k, Value: cloneValue(v)})
	}
	return found
}

// Search returns the sorted keys whose value is a string matching pattern.
// The match is unanchored; entries with non-string values are skipped.
func (s *Store) Search(pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("Store.Search regexp.Compile: %w", err)
	}
	var found []string
	for _, k := range s.Keys() {
		if text, ok := s.data[k].(string); ok && re.MatchString(text) {
			found = append(found, k)
		}
	}
	return found, nil
}

// SearchSubkey looks inside mapping-valued entries: when the value contains
// subkey, its text is matched against pattern and the outer key is collected.
// Non-mapping values and missing subkeys are skipped; a present subkey whose
// value is not a string fails with ErrSubkeyNotText, never coerced.
func (s *Store) SearchSubkey(subkey, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("Store.SearchSubkey regexp.Compile: %w", err)
	}
	var found []string
	for _, k := range s.Keys() {
		m, ok := s.data[k].(map[string]any)
		if !ok {
			continue
		}
		sv, ok := m[subkey]
		if !ok {
			continue
		}
		text, ok := sv.(string)
		if !ok {
			return nil, fmt.Errorf("Store.SearchSubkey key %q subkey %q: %w", k, subkey, ErrSubkeyNotText)
		}
		if re.MatchString(text) {
			found = append(found, k)
		}
	}
	return found, nil
}

// SearchSubkeys concatenates the SearchSubkey results for each subkey in the
// given order, preserving keys that match under more than one subkey.
func (s *Store) SearchSubkeys(subkeys []string, pattern string) ([]string, error) {
	var found []string
	for _, subkey := range subkeys {
		keys, err := s.SearchSubkey(subkey, pattern)
		if err != nil {
			return nil, fmt.Errorf("Store.SearchSubkeys: %w", err)
		}
		found = append(found, keys...)
	}
	return found, nil
}
