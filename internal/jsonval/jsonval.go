// Package jsonval handles the closed set of JSON values (null, bool, number,
// string, ordered list, string-keyed map) that flow through the pipeline as
// plain `any`. It centralizes canonical equality and canonical (sorted-key)
// encoding in one place so every caller that needs to hash or compare a JSON
// value agrees on what "equal" and "canonical" mean.
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Equal reports whether a and b are the same JSON value under the pipeline's
// equivalence rule: strings compare whitespace-trimmed, everything else
// compares structurally (after normalizing numeric types, since decoded JSON
// numbers may arrive as int, int64, float64, or json.Number depending on the
// caller).
func Equal(a, b any) bool {
	a = normalizeNumber(a)
	b = normalizeNumber(b)

	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString && bIsString {
		return strings.TrimSpace(as) == strings.TrimSpace(bs)
	}
	if aIsString != bIsString {
		return false
	}

	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// normalizeNumber collapses the various numeric representations
// (int, int64, float64, json.Number) to float64 so Equal and CanonicalJSON
// don't report "1" != "1.0" merely because of decode-path differences.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return string(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// CanonicalJSON encodes v deterministically: object keys are sorted
// lexicographically at every nesting level, and the result is stable
// regardless of the original map's iteration order. Non-JSON leaves
// (anything encoding/json cannot represent) are stringified with fmt.Sprint
// rather than erroring, so a caller hashing a best-effort payload never
// fails on an unexpected leaf type.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	v = normalizeNumber(v)
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool, float64, string:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		// Non-JSON leaf (struct, slice of a concrete type, etc.) — stringify
		// rather than fail; callers hashing raw ingest payloads can't control
		// every leaf's dynamic type.
		return encodeCanonical(buf, fmt.Sprint(val))
	}
}
