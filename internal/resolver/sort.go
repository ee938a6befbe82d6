package resolver

import (
	"sort"

	"github.com/ashita-ai/kioku"
)

// canonicalSort re-orders every list on the Passport into its canonical,
// diff-stable ordering. Called once at the end of every merge.
func canonicalSort(p *kioku.Passport) {
	sort.SliceStable(p.Facts, func(i, j int) bool {
		if p.Facts[i].Key != p.Facts[j].Key {
			return p.Facts[i].Key < p.Facts[j].Key
		}
		return p.Facts[i].TS.After(p.Facts[j].TS)
	})

	sort.SliceStable(p.Prefs, func(i, j int) bool {
		if p.Prefs[i].Key != p.Prefs[j].Key {
			return p.Prefs[i].Key < p.Prefs[j].Key
		}
		return p.Prefs[i].TS.After(p.Prefs[j].TS)
	})

	sort.SliceStable(p.Entities, func(i, j int) bool {
		ki, kj := lowerTrim(p.Entities[i].Name), lowerTrim(p.Entities[j].Name)
		if ki != kj {
			return ki < kj
		}
		return p.Entities[i].Type < p.Entities[j].Type
	})

	sort.SliceStable(p.OpenLoops, func(i, j int) bool {
		if !p.OpenLoops[i].TS.Equal(p.OpenLoops[j].TS) {
			return p.OpenLoops[i].TS.After(p.OpenLoops[j].TS)
		}
		return lowerTrim(p.OpenLoops[i].Item) < lowerTrim(p.OpenLoops[j].Item)
	})

	sort.SliceStable(p.Contradictions, func(i, j int) bool {
		if p.Contradictions[i].Key != p.Contradictions[j].Key {
			return p.Contradictions[i].Key < p.Contradictions[j].Key
		}
		return p.Contradictions[i].TsNew.After(p.Contradictions[j].TsNew)
	})
}
