package util

// PickFirst returns the first value found in obj under the given keys, in
// order, skipping any value that is "empty" in the JSON sense: nil, "", an
// empty list, or an empty map. Returns (nil, false) if every key is missing
// or empty.
func PickFirst(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		v, present := obj[k]
		if !present || isEmptyValue(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
