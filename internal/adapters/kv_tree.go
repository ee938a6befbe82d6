package adapters

import (
	"fmt"
	"sort"
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// KVTree converts a single key/value-tree node into an Interaction. value
// may be a mapping, a list, or a scalar; only a mapping carries a
// timestamp, per the same probe fields as the document-store adapter. now
// is used only when no timestamp can be derived.
func KVTree(value any, path, nodeID string, now time.Time) kioku.Interaction {
	var ts time.Time
	var data any

	if m, ok := value.(map[string]any); ok {
		if t, found := pickTimestamp(m, timestampFields); found {
			ts = t
		}
		data = m
	} else {
		data = map[string]any{"value": value}
	}
	if ts.IsZero() {
		ts = now
	}

	id := nodeID
	if id == "" && path != "" {
		id = slashToUnderscore(path)
	}
	if id == "" {
		id = hashPrefix(map[string]any{"path": path, "value": value})
	}

	return kioku.Interaction{
		ID:     id,
		TS:     ts,
		Type:   "kv-tree",
		Text:   util.SafeStringify(value, maxStringifyKeys, maxStringifyList, maxStringifyStr),
		Source: path,
		Data:   data,
	}
}

// KVTreeBatch fans a KV-tree value out into one Interaction per child: a
// list yields one per index (path extended with "/idx"), a mapping yields
// one per key (path extended with "/key", id set to the key), and a scalar
// yields a single Interaction rooted at path.
func KVTreeBatch(value any, path string, now time.Time) []kioku.Interaction {
	switch v := value.(type) {
	case []any:
		out := make([]kioku.Interaction, 0, len(v))
		for i, item := range v {
			childPath := fmt.Sprintf("%s/%d", path, i)
			out = append(out, KVTree(item, childPath, "", now))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]kioku.Interaction, 0, len(keys))
		for _, k := range keys {
			childPath := path + "/" + k
			out = append(out, KVTree(v[k], childPath, k, now))
		}
		return out
	default:
		return []kioku.Interaction{KVTree(value, path, "", now)}
	}
}
