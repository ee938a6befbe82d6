// Package renderer implements the score-and-trim, budget-enforced render
// of a Passport into a plain-text briefing suitable for injection into a
// downstream generative assistant's context window.
package renderer

import (
	"sort"
	"time"

	"github.com/ashita-ai/kioku"
)

// score is the linear ranking function used to order the Facts and
// Preferences sections before trimming; open loops and contradictions are
// ordered by timestamp alone. Deliberately dominated by ts over confidence.
func score(ts time.Time, confidence float64) float64 {
	return float64(ts.Unix())/1e9 + 0.5*confidence
}

func rankFacts(facts []kioku.Fact) []kioku.Fact {
	ranked := append([]kioku.Fact(nil), facts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i].TS, ranked[i].Confidence) > score(ranked[j].TS, ranked[j].Confidence)
	})
	return ranked
}

func rankPrefs(prefs []kioku.Preference) []kioku.Preference {
	ranked := append([]kioku.Preference(nil), prefs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i].TS, ranked[i].Confidence) > score(ranked[j].TS, ranked[j].Confidence)
	})
	return ranked
}

func rankOpenLoops(loops []kioku.OpenLoop) []kioku.OpenLoop {
	ranked := append([]kioku.OpenLoop(nil), loops...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TS.After(ranked[j].TS)
	})
	return ranked
}

func rankContradictions(cs []kioku.Contradiction) []kioku.Contradiction {
	ranked := append([]kioku.Contradiction(nil), cs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TsNew.After(ranked[j].TsNew)
	})
	return ranked
}
