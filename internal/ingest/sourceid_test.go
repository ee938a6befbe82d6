package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func TestShortSourceID_StablePrefix(t *testing.T) {
	seen := map[string]bool{}
	id := shortSourceID(kioku.SourceTranscript, map[string]any{"a": 1}, seen)
	assert.True(t, strings.HasPrefix(id, "t"))
	assert.True(t, seen[id])
}

func TestShortSourceID_CollisionGetsSuffix(t *testing.T) {
	seen := map[string]bool{}
	payload := map[string]any{"a": 1}
	first := shortSourceID(kioku.SourceTranscript, payload, seen)
	second := shortSourceID(kioku.SourceTranscript, payload, seen)
	require.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "-2"))
}

func TestShortSourceID_DifferentKindsDifferentPrefix(t *testing.T) {
	seen := map[string]bool{}
	t1 := shortSourceID(kioku.SourceTranscript, "x", seen)
	r1 := shortSourceID(kioku.SourceRelational, "x", seen)
	assert.NotEqual(t, t1[0], r1[0])
}
