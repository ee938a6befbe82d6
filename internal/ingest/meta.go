package ingest

import (
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// recognizedMetaKeys are the meta keys given special handling by the
// coalescer and adapters. Everything else in meta is carried through
// verbatim into Interaction.Meta.
var recognizedMetaKeys = map[string]bool{
	"user_key":        true,
	"source":          true,
	"source_pointer":  true,
	"source_id":       true,
	"kind":            true,
	"type":            true,
	"id":              true,
	"ts":              true,
	"table":           true,
	"collection_path": true,
}

func cloneMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaSourcePointer(meta map[string]any) string {
	if s := metaString(meta, "source"); s != "" {
		return s
	}
	return metaString(meta, "source_pointer")
}

func metaKind(meta map[string]any, fallback kioku.SourceKind) kioku.SourceKind {
	s := metaString(meta, "kind")
	switch kioku.SourceKind(s) {
	case kioku.SourceTranscript, kioku.SourceDocumentStore, kioku.SourceKVTree,
		kioku.SourceRelational, kioku.SourceChat, kioku.SourceForm, kioku.SourceUnknown:
		return kioku.SourceKind(s)
	default:
		return fallback
	}
}

// applyMetaOverrides layers the recognized meta keys onto an Interaction
// already produced by an adapter, then folds every unrecognized key into
// Interaction.Meta.
func applyMetaOverrides(in *kioku.Interaction, meta map[string]any) {
	if meta == nil {
		return
	}
	if id := metaString(meta, "id"); id != "" {
		in.ID = id
	}
	if tsRaw, ok := meta["ts"]; ok {
		if ts, ok := util.ParseTimestamp(tsRaw); ok {
			in.TS = ts
		}
	}
	if typ := metaString(meta, "type"); typ != "" {
		in.Type = typ
	}
	if src := metaSourcePointer(meta); src != "" {
		in.Source = src
	}

	var extra map[string]any
	for k, v := range meta {
		if recognizedMetaKeys[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	if extra != nil {
		if in.Meta == nil {
			in.Meta = extra
		} else {
			for k, v := range extra {
				in.Meta[k] = v
			}
		}
	}
}

func metaTime(meta map[string]any, key string, fallback time.Time) time.Time {
	if meta == nil {
		return fallback
	}
	if v, ok := meta[key]; ok {
		if ts, ok := util.ParseTimestamp(v); ok {
			return ts
		}
	}
	return fallback
}
