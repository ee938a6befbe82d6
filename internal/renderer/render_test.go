package renderer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func mustParse(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestExportContext_SectionOrderAndHeaders(t *testing.T) {
	p := &kioku.Passport{
		UserKey:   "user-1",
		UpdatedAt: mustParse("2026-03-01T00:00:00Z"),
		Facts:     []kioku.Fact{{Key: "timezone", Value: "PST", TS: mustParse("2026-03-01T00:00:00Z"), Confidence: 0.9}},
		Prefs:     []kioku.Preference{{Key: "tone", Value: "casual", TS: mustParse("2026-03-01T00:00:00Z"), Confidence: 0.8}},
		Entities:  []kioku.Entity{{Name: "Ashita", Type: kioku.EntityOrganization}},
		OpenLoops: []kioku.OpenLoop{{Item: "follow up on contract", TS: mustParse("2026-03-01T00:00:00Z")}},
		Contradictions: []kioku.Contradiction{
			{Key: "timezone", Old: "EST", New: "PST", TsOld: mustParse("2026-02-01T00:00:00Z"), TsNew: mustParse("2026-03-01T00:00:00Z")},
		},
	}

	out := ExportContext(p, 4000, "Context")

	factsIdx := strings.Index(out, "Facts:")
	prefsIdx := strings.Index(out, "Preferences:")
	entitiesIdx := strings.Index(out, "Key entities:")
	loopsIdx := strings.Index(out, "Open loops:")
	updatesIdx := strings.Index(out, "Recent updates:")

	require.NotEqual(t, -1, factsIdx)
	require.NotEqual(t, -1, prefsIdx)
	require.NotEqual(t, -1, entitiesIdx)
	require.NotEqual(t, -1, loopsIdx)
	require.NotEqual(t, -1, updatesIdx)

	assert.True(t, factsIdx < prefsIdx)
	assert.True(t, prefsIdx < entitiesIdx)
	assert.True(t, entitiesIdx < loopsIdx)
	assert.True(t, loopsIdx < updatesIdx)

	assert.Contains(t, out, "Ashita (organization)")
	assert.Contains(t, out, "- timezone: PST")
	assert.Contains(t, out, "- tone: casual")
	assert.Contains(t, out, "- follow up on contract")
	assert.Contains(t, out, "- timezone: EST -> PST")
	assert.Contains(t, out, "User: user-1")
}

func TestExportContext_OtherEntityTypeOmitsSuffix(t *testing.T) {
	p := &kioku.Passport{
		UpdatedAt: mustParse("2026-03-01T00:00:00Z"),
		Entities:  []kioku.Entity{{Name: "Thing", Type: kioku.EntityOther}},
	}
	out := ExportContext(p, 4000, "")
	assert.Contains(t, out, "- Thing\n")
	assert.NotContains(t, out, "Thing (other)")
}

func TestExportContext_EmptySectionsOmitted(t *testing.T) {
	p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
	out := ExportContext(p, 4000, "")
	assert.NotContains(t, out, "Facts:")
	assert.NotContains(t, out, "Preferences:")
	assert.NotContains(t, out, "Key entities:")
	assert.NotContains(t, out, "Open loops:")
	assert.NotContains(t, out, "Recent updates:")
}

func TestExportContext_BudgetBelowMinimumClamped(t *testing.T) {
	p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
	out1 := ExportContext(p, 1, "")
	out2 := ExportContext(p, minBudget, "")
	assert.Equal(t, out2, out1)
}

func TestExportContext_TrimPriorityDropsContradictionsBeforeFacts(t *testing.T) {
	p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
	for i := 0; i < 3; i++ {
		p.Facts = append(p.Facts, kioku.Fact{
			Key:   fmt.Sprintf("fact_%d", i),
			Value: strings.Repeat("x", 120),
			TS:    mustParse("2026-03-01T00:00:00Z"),
		})
	}
	for i := 0; i < 20; i++ {
		p.Contradictions = append(p.Contradictions, kioku.Contradiction{
			Key: fmt.Sprintf("k_%d", i), Old: "a", New: "b",
			TsOld: mustParse("2026-01-01T00:00:00Z"), TsNew: mustParse("2026-03-01T00:00:00Z"),
		})
	}

	out := ExportContext(p, 500, "")
	assert.Contains(t, out, "Facts:")
	for i := 0; i < 3; i++ {
		assert.Contains(t, out, fmt.Sprintf("fact_%d", i))
	}
}

func TestExportContext_RespectsBudgetProperty(t *testing.T) {
	budgets := []int{400, 500, 900, 2000}
	for _, budget := range budgets {
		p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
		for i := 0; i < 80; i++ {
			p.Facts = append(p.Facts, kioku.Fact{
				Key:   fmt.Sprintf("fact_key_%d", i),
				Value: strings.Repeat("v", 200),
				TS:    mustParse("2026-03-01T00:00:00Z"),
			})
		}
		out := ExportContext(p, budget, "")
		assert.LessOrEqual(t, len([]rune(out)), budget+1, "budget %d", budget)
	}
}

func TestExportContext_Scenario60FactsBudget900(t *testing.T) {
	p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
	for i := 0; i < 60; i++ {
		p.Facts = append(p.Facts, kioku.Fact{
			Key:   fmt.Sprintf("fact_%d", i),
			Value: strings.Repeat("a", 200),
			TS:    mustParse("2026-03-01T00:00:00Z"),
		})
	}
	out := ExportContext(p, 900, "")
	assert.LessOrEqual(t, len([]rune(out)), 910)
	assert.Contains(t, out, "Facts")
}

func TestExportContext_HardTruncationFallback(t *testing.T) {
	p := &kioku.Passport{UpdatedAt: mustParse("2026-03-01T00:00:00Z")}
	p.Facts = append(p.Facts, kioku.Fact{Key: "single_huge_fact_key_that_cannot_be_trimmed_away_" + strings.Repeat("k", 2000), Value: strings.Repeat("z", 2000), TS: mustParse("2026-03-01T00:00:00Z")})
	out := ExportContext(p, minBudget, "")
	assert.LessOrEqual(t, len([]rune(out)), minBudget+1)
	assert.True(t, strings.HasSuffix(out, "…"))
}
