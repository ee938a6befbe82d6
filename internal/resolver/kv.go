// Package resolver implements the deterministic merge at the heart of the
// pipeline: temporal upsert of facts/preferences, entity coalescence by
// name/alias, open-loop dedupe, contradiction recording, and canonical
// sort. Pure — no I/O, no clock reads beyond the caller-supplied "now" used
// only to stamp Passport.UpdatedAt.
package resolver

import (
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/jsonval"
	"github.com/ashita-ai/kioku/internal/util"
)

// kvItem is the shared shape Fact and Preference both reduce to for the
// temporal-upsert algorithm — the two types differ only in name and
// semantic intent, never in merge behavior.
type kvItem struct {
	Key        string
	Value      any
	TS         time.Time
	Confidence float64
	Source     string
}

func factToItem(f kioku.Fact) kvItem {
	return kvItem{Key: f.Key, Value: f.Value, TS: f.TS, Confidence: f.Confidence, Source: f.Source}
}

func itemToFact(i kvItem) kioku.Fact {
	return kioku.Fact{Key: i.Key, Value: i.Value, TS: i.TS, Confidence: i.Confidence, Source: i.Source}
}

func prefToItem(p kioku.Preference) kvItem {
	return kvItem{Key: p.Key, Value: p.Value, TS: p.TS, Confidence: p.Confidence, Source: p.Source}
}

func itemToPref(i kvItem) kioku.Preference {
	return kioku.Preference{Key: i.Key, Value: i.Value, TS: i.TS, Confidence: i.Confidence, Source: i.Source}
}

// upsertKV applies the temporal-KV-upsert algorithm for a single incoming
// item against the current list. Returns the new list, whether this
// counted as an "upsert" (new key or a value replaced an existing one),
// and any Contradiction produced.
func upsertKV(items []kvItem, incoming kvItem) ([]kvItem, bool, *kioku.Contradiction) {
	incoming.Key = util.NormalizeKey(incoming.Key)

	idx := -1
	for i, existing := range items {
		if util.NormalizeKey(existing.Key) == incoming.Key {
			idx = i
			break
		}
	}

	if idx == -1 {
		return append(items, incoming), true, nil
	}

	existing := items[idx]
	if jsonval.Equal(existing.Value, incoming.Value) {
		if incoming.TS.After(existing.TS) {
			items[idx].TS = incoming.TS
			items[idx].Source = incoming.Source
		}
		if incoming.Confidence > items[idx].Confidence {
			items[idx].Confidence = incoming.Confidence
		}
		return items, false, nil
	}

	if !incoming.TS.Before(existing.TS) {
		contradiction := &kioku.Contradiction{
			Key:       incoming.Key,
			Old:       existing.Value,
			New:       incoming.Value,
			TsOld:     existing.TS,
			TsNew:     incoming.TS,
			SourceOld: existing.Source,
			SourceNew: incoming.Source,
		}
		items[idx] = incoming
		return items, true, contradiction
	}

	contradiction := &kioku.Contradiction{
		Key:       incoming.Key,
		Old:       incoming.Value,
		New:       existing.Value,
		TsOld:     incoming.TS,
		TsNew:     existing.TS,
		SourceOld: incoming.Source,
		SourceNew: existing.Source,
	}
	return items, false, contradiction
}
