package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndNormalize_HappyPath(t *testing.T) {
	raw := []byte(`{
		"facts": [{"key": "Location", "value": "Harare", "ts": "2026-02-01T10:00:00Z", "confidence": 0.9}],
		"prefs": [{"key": "tone", "value": "direct"}],
		"entities": [{"name": "SozoGraph", "type": "project", "aliases": ["Sozo Graph"]}],
		"open_loops": [{"item": "Finalize v1 repo"}]
	}`)

	update, err := parseAndNormalize(raw, "src-1")
	require.NoError(t, err)

	require.Len(t, update.Facts, 1)
	assert.Equal(t, "location", update.Facts[0].Key)
	assert.Equal(t, "Harare", update.Facts[0].Value)
	assert.Equal(t, 0.9, update.Facts[0].Confidence)
	assert.Equal(t, "src-1", update.Facts[0].Source)

	require.Len(t, update.Prefs, 1)
	assert.Equal(t, 0.7, update.Prefs[0].Confidence) // defaulted

	require.Len(t, update.Entities, 1)
	assert.Equal(t, "SozoGraph", update.Entities[0].Name)

	require.Len(t, update.OpenLoops, 1)
	assert.Equal(t, "src-1", update.OpenLoops[0].Source)
}

func TestParseAndNormalize_DropsInvalidItems(t *testing.T) {
	raw := []byte(`{
		"facts": [{"value": "no key here"}, {"key": "tone", "value": "direct"}],
		"entities": [{"type": "project"}],
		"open_loops": [{}]
	}`)

	update, err := parseAndNormalize(raw, "src-1")
	require.NoError(t, err)
	require.Len(t, update.Facts, 1)
	assert.Equal(t, "tone", update.Facts[0].Key)
	assert.Empty(t, update.Entities)
	assert.Empty(t, update.OpenLoops)
}

func TestParseAndNormalize_UnparseableJSON(t *testing.T) {
	_, err := parseAndNormalize([]byte("not json at all"), "src-1")
	assert.Error(t, err)
}

func TestNormalizeConfidence_DefaultsOutOfRange(t *testing.T) {
	assert.Equal(t, 0.7, normalizeConfidence(1.5))
	assert.Equal(t, 0.7, normalizeConfidence(-0.2))
	assert.Equal(t, 0.7, normalizeConfidence("not a number"))
	assert.Equal(t, 0.3, normalizeConfidence(0.3))
}

func TestNormalizeEntity_DefaultsTypeAndAliases(t *testing.T) {
	e, ok := normalizeEntity(map[string]any{"name": "Ashita"})
	require.True(t, ok)
	assert.Equal(t, "other", string(e.Type))
	assert.Empty(t, e.Aliases)
}
