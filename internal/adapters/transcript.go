package adapters

import (
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// Transcript converts a raw free-form string into an Interaction. This is
// the trivial adapter: the string becomes Text verbatim, with a timestamp
// pulled from meta["ts"] if present, else the caller-supplied now.
func Transcript(text string, meta map[string]any, now time.Time) kioku.Interaction {
	ts := now
	if meta != nil {
		if v, ok := meta["ts"]; ok {
			if parsed, ok := util.ParseTimestamp(v); ok {
				ts = parsed
			}
		}
	}

	var source string
	if meta != nil {
		if v, ok := meta["source"].(string); ok {
			source = v
		}
	}

	return kioku.Interaction{
		TS:     ts,
		Type:   "transcript",
		Text:   text,
		Source: source,
	}
}
