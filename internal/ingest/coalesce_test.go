package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestCoerce_String(t *testing.T) {
	ins, refs := CoerceToInteractions("hello world", "", nil, now, nil)
	require.Len(t, ins, 1)
	require.Len(t, refs, 1)
	assert.Equal(t, "transcript", ins[0].Type)
	assert.Equal(t, kioku.SourceTranscript, refs[0].Kind)
}

func TestCoerce_List_PropagatesIndexedSourceID(t *testing.T) {
	input := []any{"first", "second"}
	meta := map[string]any{"source_id": "batch"}
	ins, refs := CoerceToInteractions(input, "", meta, now, nil)
	require.Len(t, ins, 2)
	require.Len(t, refs, 2)
	assert.Equal(t, "batch_0", refs[0].ID)
	assert.Equal(t, "batch_1", refs[1].ID)
}

func TestGuessHint_KVTree(t *testing.T) {
	doc := map[string]any{"path": "users/1/age", "value": float64(30)}
	assert.Equal(t, hintKVTree, guessHint(doc))
}

func TestGuessHint_Relational(t *testing.T) {
	doc := map[string]any{"table": "users", "row": map[string]any{"id": "1"}}
	assert.Equal(t, hintRelational, guessHint(doc))
}

func TestGuessHint_DocumentStoreBatch(t *testing.T) {
	doc := map[string]any{
		"doc1": map[string]any{"text": "a"},
		"doc2": map[string]any{"text": "b"},
	}
	assert.Equal(t, hintDocumentStoreBatch, guessHint(doc))
}

func TestGuessHint_DocumentStoreSingle(t *testing.T) {
	doc := map[string]any{"text": "plain doc", "id": "x"}
	assert.Equal(t, hintDocumentStoreSingle, guessHint(doc))
}

func TestCoerce_KVTreeEnvelope(t *testing.T) {
	input := map[string]any{"path": "users/1/prefs", "value": map[string]any{"tone": "direct"}}
	ins, refs := CoerceToInteractions(input, "", nil, now, nil)
	require.Len(t, ins, 1)
	assert.Equal(t, "kv-tree", ins[0].Type)
	assert.Equal(t, kioku.SourceKVTree, refs[0].Kind)
}

func TestCoerce_RelationalEnvelope(t *testing.T) {
	input := map[string]any{"table": "events", "row": map[string]any{"action": "renewed"}}
	ins, refs := CoerceToInteractions(input, "", nil, now, nil)
	require.Len(t, ins, 1)
	assert.Equal(t, "relational", ins[0].Type)
	assert.Equal(t, kioku.SourceRelational, refs[0].Kind)
	assert.Equal(t, "renewed", ins[0].Text)
}

func TestCoerce_DocumentStoreBatchByHeuristic(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{"text": "first"},
		"b": map[string]any{"text": "second"},
	}
	ins, refs := CoerceToInteractions(input, "", nil, now, nil)
	require.Len(t, ins, 2)
	require.Len(t, refs, 2)
	for _, ref := range refs {
		assert.Equal(t, kioku.SourceDocumentStore, ref.Kind)
	}
}

func TestCoerce_ExplicitHintOverridesHeuristic(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{"text": "first"},
		"b": map[string]any{"text": "second"},
	}
	ins, _ := CoerceToInteractions(input, hintDocumentStoreSingle, nil, now, nil)
	require.Len(t, ins, 1)
	assert.Equal(t, "document-store", ins[0].Type)
}

func TestCoerce_UnderscoreHintField(t *testing.T) {
	input := map[string]any{"_hint": "relational", "table": "t", "row": map[string]any{"event": "x"}}
	ins, _ := CoerceToInteractions(input, "", nil, now, nil)
	require.Len(t, ins, 1)
	assert.Equal(t, "relational", ins[0].Type)
}

func TestCoerce_Generic(t *testing.T) {
	ins, refs := CoerceToInteractions(42, "", nil, now, nil)
	require.Len(t, ins, 1)
	assert.Equal(t, "unknown", ins[0].Type)
	assert.Equal(t, kioku.SourceUnknown, refs[0].Kind)
}

func TestCoerce_SourceIDCollisionAcrossCalls(t *testing.T) {
	seen := map[string]bool{}
	_, refs1 := CoerceToInteractions("same text", "", nil, now, seen)
	_, refs2 := CoerceToInteractions("same text", "", nil, now, seen)
	assert.NotEqual(t, refs1[0].ID, refs2[0].ID)
}
