package util

import (
	"strings"
)

// NormalizeKey lowercases s, collapses runs of non-alphanumeric characters
// to a single underscore, and strips leading/trailing underscores. An empty
// input yields an empty string rather than "_".
func NormalizeKey(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	prevUnderscore := false
	for _, r := range lower {
		if isAlphanumeric(r) {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// isAlphanumeric is deliberately ASCII-only ('a'-'z', '0'-'9'), matching
// the equivalence class a "[^a-z0-9]+" collapse would produce after
// lowercasing — a non-ASCII letter like "é" is punctuation here, not a key
// character.
func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
