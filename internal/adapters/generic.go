package adapters

import (
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// Generic is the fallback adapter for any payload that doesn't match one of
// the recognized envelope shapes. It never fails: every value, however
// irregular, produces an Interaction of type "unknown". now is used only
// when v carries no timestamp field.
func Generic(v any, sourcePointer string, now time.Time) kioku.Interaction {
	ts := time.Time{}
	if m, ok := v.(map[string]any); ok {
		if t, found := pickTimestamp(m, timestampFields); found {
			ts = t
		}
	}
	if ts.IsZero() {
		ts = now
	}

	return kioku.Interaction{
		ID:     hashPrefix(v),
		TS:     ts,
		Type:   "unknown",
		Text:   util.SafeStringify(v, maxStringifyKeys, maxStringifyList, maxStringifyStr),
		Source: sourcePointer,
		Data:   v,
	}
}
