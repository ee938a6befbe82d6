package extractor

import (
	"encoding/json"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// rawResponse is the shape the model is asked to return. Every field is
// JSON-loose (map[string]any items) because per-item validation, not
// struct tags, decides what survives.
type rawResponse struct {
	Facts     []map[string]any `json:"facts"`
	Prefs     []map[string]any `json:"prefs"`
	Entities  []map[string]any `json:"entities"`
	OpenLoops []map[string]any `json:"open_loops"`
}

// parseAndNormalize turns a model's raw JSON text into a validated
// PassportUpdate. A JSON-parse failure here is what callers wrap as
// ExtractorError / ErrExtractorUnparseable — everything downstream of a
// successful parse is per-item best-effort (bad items are dropped, never
// fatal).
func parseAndNormalize(raw []byte, sourceID string) (kioku.PassportUpdate, error) {
	var resp rawResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return kioku.PassportUpdate{}, err
	}

	update := kioku.PassportUpdate{
		Facts:     make([]kioku.Fact, 0, len(resp.Facts)),
		Prefs:     make([]kioku.Preference, 0, len(resp.Prefs)),
		Entities:  make([]kioku.Entity, 0, len(resp.Entities)),
		OpenLoops: make([]kioku.OpenLoop, 0, len(resp.OpenLoops)),
	}

	for _, item := range resp.Facts {
		if f, ok := normalizeFact(item, sourceID); ok {
			update.Facts = append(update.Facts, f)
		}
	}
	for _, item := range resp.Prefs {
		if p, ok := normalizeFact(item, sourceID); ok {
			update.Prefs = append(update.Prefs, kioku.Preference(p))
		}
	}
	for _, item := range resp.Entities {
		if e, ok := normalizeEntity(item); ok {
			update.Entities = append(update.Entities, e)
		}
	}
	for _, item := range resp.OpenLoops {
		if o, ok := normalizeOpenLoop(item, sourceID); ok {
			update.OpenLoops = append(update.OpenLoops, o)
		}
	}

	return update, nil
}

// normalizeFact handles both facts and prefs — identical shape and
// validation. The returned kioku.Fact is converted to kioku.Preference by
// the caller where needed.
func normalizeFact(item map[string]any, sourceID string) (kioku.Fact, bool) {
	keyRaw, ok := item["key"].(string)
	if !ok || keyRaw == "" {
		return kioku.Fact{}, false
	}

	f := kioku.Fact{
		Key:        util.NormalizeKey(keyRaw),
		Value:      item["value"],
		Confidence: normalizeConfidence(item["confidence"]),
		Source:     sourceID,
	}
	if ts, ok := util.ParseTimestamp(item["ts"]); ok {
		f.TS = ts
	}
	return f, true
}

func normalizeEntity(item map[string]any) (kioku.Entity, bool) {
	name, ok := item["name"].(string)
	if !ok || name == "" {
		return kioku.Entity{}, false
	}

	e := kioku.Entity{
		Name: name,
		Type: kioku.EntityOther,
	}
	if typ, ok := item["type"].(string); ok && typ != "" {
		e.Type = kioku.EntityType(typ)
	}
	if aliasesRaw, ok := item["aliases"].([]any); ok {
		for _, a := range aliasesRaw {
			if s, ok := a.(string); ok && s != "" {
				e.Aliases = append(e.Aliases, s)
			}
		}
	}
	return e, true
}

func normalizeOpenLoop(item map[string]any, sourceID string) (kioku.OpenLoop, bool) {
	text, ok := item["item"].(string)
	if !ok || text == "" {
		return kioku.OpenLoop{}, false
	}

	o := kioku.OpenLoop{
		Item:   text,
		Source: sourceID,
	}
	if ts, ok := util.ParseTimestamp(item["ts"]); ok {
		o.TS = ts
	}
	return o, true
}

// normalizeConfidence coerces confidence to a real number in [0,1],
// defaulting to kioku.DefaultConfidence whenever the field is absent,
// non-numeric, or out of range.
func normalizeConfidence(v any) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 || f > 1 {
		return kioku.DefaultConfidence
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
