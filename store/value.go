package store

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/types/known/structpb"
)

// normalizeValue admits a caller-supplied value into the canonical value
// model: nil, bool, float64, string, []any and map[string]any. The conversion
// goes through structpb, which gives every number float64 semantics, encodes
// []byte as a base64 string and turns NaN/Inf into their string forms, so
// both the snapshot and JSON paths share one representable universe. Values
// outside it (structs, channels, non-string-keyed maps) are rejected with
// ErrNotSerializable.
func normalizeValue(v any) (any, error) {
	pv, err := structpb.NewValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrNotSerializable, err)
	}
	return pv.AsInterface(), nil
}

// cloneValue deep-copies a canonical value so callers never alias the mapping.
func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(tv))
		for k, e := range tv {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(tv))
		for i, e := range tv {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// valueEqual is deep structural equality over canonical values.
func valueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
