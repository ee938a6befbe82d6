package resolver

import (
	"strings"

	"github.com/ashita-ai/kioku"
)

// normalizeOpenLoopText collapses whitespace and lowercases, for the
// dedupe equivalence check below.
func normalizeOpenLoopText(s string) string {
	return lowerTrim(strings.Join(strings.Fields(s), " "))
}

// mergeOpenLoops dedupes incoming open loops against loops: a new entry
// whose normalized item text matches an existing one replaces it only if
// its ts is later (and that replacement is not counted as an add).
func mergeOpenLoops(loops []kioku.OpenLoop, incoming []kioku.OpenLoop) ([]kioku.OpenLoop, int) {
	index := make(map[string]int, len(loops))
	for i, l := range loops {
		index[normalizeOpenLoopText(l.Item)] = i
	}

	added := 0
	for _, o := range incoming {
		key := normalizeOpenLoopText(o.Item)
		if idx, ok := index[key]; ok {
			if o.TS.After(loops[idx].TS) {
				loops[idx] = o
			}
			continue
		}
		loops = append(loops, o)
		index[key] = len(loops) - 1
		added++
	}
	return loops, added
}
