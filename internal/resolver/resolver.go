package resolver

import (
	"time"

	"github.com/ashita-ai/kioku"
)

// MergePassportUpdate merges a PassportUpdate into passport in place and
// returns accounting of what happened. Deterministic, no I/O. Facts and
// preferences are upserted one at a time through the shared temporal-KV
// algorithm; entity coalescence, open-loop dedupe, contradiction
// recording, and canonical re-sort follow, then passport.Touch(now) is
// called.
func MergePassportUpdate(passport *kioku.Passport, update kioku.PassportUpdate, now time.Time) kioku.ResolveStats {
	var stats kioku.ResolveStats

	factItems := toFactItems(passport.Facts)
	for _, f := range update.Facts {
		var upserted bool
		var contradiction *kioku.Contradiction
		factItems, upserted, contradiction = upsertKV(factItems, factToItem(f))
		if upserted {
			stats.FactsUpserted++
		}
		if contradiction != nil {
			passport.Contradictions = append(passport.Contradictions, *contradiction)
			stats.ContradictionsAdded++
		}
	}
	passport.Facts = fromFactItems(factItems)

	prefItems := toPrefItems(passport.Prefs)
	for _, pr := range update.Prefs {
		var upserted bool
		var contradiction *kioku.Contradiction
		prefItems, upserted, contradiction = upsertKV(prefItems, prefToItem(pr))
		if upserted {
			stats.PrefsUpserted++
		}
		if contradiction != nil {
			passport.Contradictions = append(passport.Contradictions, *contradiction)
			stats.ContradictionsAdded++
		}
	}
	passport.Prefs = fromPrefItems(prefItems)

	entities, touched := mergeEntities(passport.Entities, update.Entities)
	passport.Entities = entities
	stats.EntitiesTouched = touched

	loops, added := mergeOpenLoops(passport.OpenLoops, update.OpenLoops)
	passport.OpenLoops = loops
	stats.OpenLoopsAdded = added

	canonicalSort(passport)
	passport.Touch(now)

	return stats
}

func toFactItems(facts []kioku.Fact) []kvItem {
	items := make([]kvItem, len(facts))
	for i, f := range facts {
		items[i] = factToItem(f)
	}
	return items
}

func fromFactItems(items []kvItem) []kioku.Fact {
	facts := make([]kioku.Fact, len(items))
	for i, it := range items {
		facts[i] = itemToFact(it)
	}
	return facts
}

func toPrefItems(prefs []kioku.Preference) []kvItem {
	items := make([]kvItem, len(prefs))
	for i, p := range prefs {
		items[i] = prefToItem(p)
	}
	return items
}

func fromPrefItems(items []kvItem) []kioku.Preference {
	prefs := make([]kioku.Preference, len(items))
	for i, it := range items {
		prefs[i] = itemToPref(it)
	}
	return prefs
}
