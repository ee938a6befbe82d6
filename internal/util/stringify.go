package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SafeStringify renders an arbitrary JSON-ish value as a short, deterministic,
// human-readable string. Used both as an evidence/fallback Interaction.text
// source and as a per-value renderer in the context export.
//
// Rules: strings beyond maxStr are truncated with a trailing ellipsis;
// scalars render as their textual form; lists render as "[v1, v2, ...]"
// capped at maxList entries with a " …" suffix on overflow; maps render as
// "k1: v1; k2: v2" in lexically sorted key order (not insertion order),
// capped at maxKeys with a trailing "…" on overflow. Limits re-apply at
// every nesting level.
func SafeStringify(v any, maxKeys, maxList, maxStr int) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return truncateString(val, maxStr)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []any:
		return stringifyList(val, maxKeys, maxList, maxStr)
	case map[string]any:
		return stringifyMap(val, maxKeys, maxList, maxStr)
	case []string:
		list := make([]any, len(val))
		for i, s := range val {
			list[i] = s
		}
		return stringifyList(list, maxKeys, maxList, maxStr)
	default:
		return truncateString(fmt.Sprint(val), maxStr)
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func truncateString(s string, maxStr int) string {
	runes := []rune(s)
	if len(runes) <= maxStr {
		return s
	}
	return string(runes[:maxStr]) + "…"
}

func stringifyList(list []any, maxKeys, maxList, maxStr int) string {
	n := len(list)
	cap := n
	if cap > maxList {
		cap = maxList
	}
	parts := make([]string, 0, cap)
	for i := 0; i < cap; i++ {
		parts = append(parts, SafeStringify(list[i], maxKeys, maxList, maxStr))
	}
	out := "[" + strings.Join(parts, ", ")
	if n > maxList {
		out += " …"
	}
	out += "]"
	return out
}

// mapKeyOrder replaces Go's unstable map iteration order with sorted keys —
// "insertion order" isn't observable from a decoded map[string]any, so a
// stable lexical order is the closest deterministic approximation available
// once the source order is lost to JSON decoding.
func mapKeyOrder(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringifyMap(m map[string]any, maxKeys, maxList, maxStr int) string {
	keys := mapKeyOrder(m)
	n := len(keys)
	cap := n
	if cap > maxKeys {
		cap = maxKeys
	}
	parts := make([]string, 0, cap)
	for i := 0; i < cap; i++ {
		k := keys[i]
		parts = append(parts, fmt.Sprintf("%s: %s", k, SafeStringify(m[k], maxKeys, maxList, maxStr)))
	}
	out := strings.Join(parts, "; ")
	if n > maxKeys {
		out += "…"
	}
	return out
}
