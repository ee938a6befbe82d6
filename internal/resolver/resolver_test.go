package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMerge_TemporalPriority(t *testing.T) {
	p := &kioku.Passport{
		Facts: []kioku.Fact{{Key: "location", Value: "Harare", TS: ts("2026-02-01T10:00:00Z"), Source: "t1"}},
	}
	stats := MergePassportUpdate(p, kioku.PassportUpdate{
		Facts: []kioku.Fact{{Key: "location", Value: "Bulawayo", TS: ts("2026-02-03T10:00:00Z"), Source: "t2"}},
	}, ts("2026-02-03T10:01:00Z"))

	require.Len(t, p.Facts, 1)
	assert.Equal(t, "Bulawayo", p.Facts[0].Value)
	require.Len(t, p.Contradictions, 1)
	assert.Equal(t, "Harare", p.Contradictions[0].Old)
	assert.Equal(t, "Bulawayo", p.Contradictions[0].New)
	assert.Equal(t, 1, stats.ContradictionsAdded)
	assert.Equal(t, 1, stats.FactsUpserted)
}

func TestMerge_OlderUpdate(t *testing.T) {
	p := &kioku.Passport{
		Facts: []kioku.Fact{{Key: "location", Value: "Bulawayo", TS: ts("2026-02-03T10:00:00Z"), Source: "t2"}},
	}
	MergePassportUpdate(p, kioku.PassportUpdate{
		Facts: []kioku.Fact{{Key: "location", Value: "Mutare", TS: ts("2026-01-15T10:00:00Z"), Source: "t0"}},
	}, ts("2026-02-03T11:00:00Z"))

	require.Len(t, p.Facts, 1)
	assert.Equal(t, "Bulawayo", p.Facts[0].Value)
	require.Len(t, p.Contradictions, 1)
	assert.Equal(t, "Mutare", p.Contradictions[0].Old)
	assert.Equal(t, "Bulawayo", p.Contradictions[0].New)
	assert.True(t, p.Contradictions[0].TsOld.Before(p.Contradictions[0].TsNew))
}

func TestMerge_KeyNormalization(t *testing.T) {
	p := &kioku.Passport{}
	MergePassportUpdate(p, kioku.PassportUpdate{
		Prefs: []kioku.Preference{{Key: "Tone", Value: "direct", TS: ts("2026-02-02T10:00:00Z")}},
	}, ts("2026-02-02T10:01:00Z"))
	MergePassportUpdate(p, kioku.PassportUpdate{
		Prefs: []kioku.Preference{{Key: "tone", Value: "direct", TS: ts("2026-02-03T10:00:00Z")}},
	}, ts("2026-02-03T10:01:00Z"))

	require.Len(t, p.Prefs, 1)
	assert.Equal(t, "tone", p.Prefs[0].Key)
	assert.Empty(t, p.Contradictions)
	assert.True(t, p.Prefs[0].TS.Equal(ts("2026-02-03T10:00:00Z")))
}

func TestMerge_EntityAliasCoalescence(t *testing.T) {
	p := &kioku.Passport{
		Entities: []kioku.Entity{{Name: "SozoGraph", Type: kioku.EntityProject, Aliases: []string{"Sozo Graph"}}},
	}
	MergePassportUpdate(p, kioku.PassportUpdate{
		Entities: []kioku.Entity{{Name: "Sozo Graph", Type: kioku.EntityProject, Aliases: []string{"SozoGraph v1"}}},
	}, ts("2026-02-01T00:00:00Z"))

	require.Len(t, p.Entities, 1)
	assert.Equal(t, "SozoGraph", p.Entities[0].Name)
	assert.Contains(t, p.Entities[0].Aliases, "Sozo Graph")
	assert.Contains(t, p.Entities[0].Aliases, "SozoGraph v1")
}

func TestMerge_OpenLoopDedupe(t *testing.T) {
	p := &kioku.Passport{}
	MergePassportUpdate(p, kioku.PassportUpdate{
		OpenLoops: []kioku.OpenLoop{{Item: "Finalize v1 repo", TS: ts("2026-02-01T00:00:00Z"), Source: "t1"}},
	}, ts("2026-02-01T00:01:00Z"))
	MergePassportUpdate(p, kioku.PassportUpdate{
		OpenLoops: []kioku.OpenLoop{{Item: "  finalize   v1  repo  ", TS: ts("2026-02-02T00:00:00Z"), Source: "t2"}},
	}, ts("2026-02-02T00:01:00Z"))

	require.Len(t, p.OpenLoops, 1)
	assert.Equal(t, "t2", p.OpenLoops[0].Source)
}

func TestMerge_EqualValueBumpsConfidenceAndTimestamp(t *testing.T) {
	p := &kioku.Passport{
		Facts: []kioku.Fact{{Key: "tone", Value: "direct", TS: ts("2026-01-01T00:00:00Z"), Confidence: 0.5, Source: "t1"}},
	}
	stats := MergePassportUpdate(p, kioku.PassportUpdate{
		Facts: []kioku.Fact{{Key: "tone", Value: "  direct  ", TS: ts("2026-01-02T00:00:00Z"), Confidence: 0.9, Source: "t2"}},
	}, ts("2026-01-02T00:01:00Z"))

	require.Len(t, p.Facts, 1)
	assert.Equal(t, 0, stats.FactsUpserted)
	assert.Empty(t, p.Contradictions)
	assert.Equal(t, 0.9, p.Facts[0].Confidence)
	assert.Equal(t, "t2", p.Facts[0].Source)
}

func TestMerge_Idempotence(t *testing.T) {
	update := kioku.PassportUpdate{
		Facts: []kioku.Fact{{Key: "location", Value: "Harare", TS: ts("2026-02-01T10:00:00Z"), Source: "t1"}},
	}
	p := &kioku.Passport{}
	MergePassportUpdate(p, update, ts("2026-02-01T10:01:00Z"))
	snapshot := append([]kioku.Fact{}, p.Facts...)

	stats := MergePassportUpdate(p, update, ts("2026-02-01T10:02:00Z"))
	assert.Equal(t, snapshot, p.Facts)
	assert.Empty(t, p.Contradictions)
	assert.Equal(t, 0, stats.FactsUpserted)
}

func TestMerge_CanonicalSortOrder(t *testing.T) {
	p := &kioku.Passport{}
	MergePassportUpdate(p, kioku.PassportUpdate{
		Facts: []kioku.Fact{
			{Key: "b", Value: "1", TS: ts("2026-01-01T00:00:00Z")},
			{Key: "a", Value: "1", TS: ts("2026-01-01T00:00:00Z")},
		},
	}, ts("2026-01-01T00:01:00Z"))

	require.Len(t, p.Facts, 2)
	assert.Equal(t, "a", p.Facts[0].Key)
	assert.Equal(t, "b", p.Facts[1].Key)
}
