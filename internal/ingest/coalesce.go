package ingest

import (
	"fmt"
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/adapters"
	"github.com/ashita-ai/kioku/internal/util"
)

const (
	hintKVTree              = "kv-tree"
	hintRelational          = "relational"
	hintDocumentStoreBatch  = "document-store-batch"
	hintDocumentStoreSingle = "document-store"
)

// CoerceToInteractions is the single-pass, pure, deterministic shape
// dispatcher at the heart of the coalescer. existingIDs seeds
// short-SourceRef-id collision detection (pass the ids already on a
// Passport's Sources when available); it is mutated as ids are minted.
func CoerceToInteractions(input any, hint string, meta map[string]any, now time.Time, existingIDs map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	if existingIDs == nil {
		existingIDs = make(map[string]bool)
	}
	return coerce(input, hint, meta, now, existingIDs)
}

func coerce(input any, hint string, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	switch v := input.(type) {
	case string:
		return coerceTranscript(v, meta, now, seen)
	case []any:
		return coerceList(v, hint, meta, now, seen)
	case map[string]any:
		return coerceMapping(v, hint, meta, now, seen)
	default:
		return coerceGeneric(v, meta, now, seen)
	}
}

func coerceList(items []any, hint string, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	var interactions []kioku.Interaction
	var sources []kioku.SourceRef
	baseSourceID := metaString(meta, "source_id")

	for i, item := range items {
		childMeta := cloneMeta(meta)
		if baseSourceID != "" {
			childMeta["source_id"] = fmt.Sprintf("%s_%d", baseSourceID, i)
		}
		ci, cs := coerce(item, hint, childMeta, now, seen)
		interactions = append(interactions, ci...)
		sources = append(sources, cs...)
	}
	return interactions, sources
}

func coerceMapping(doc map[string]any, hint string, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	effectiveHint := hint
	if effectiveHint == "" {
		effectiveHint = metaString(doc, "_hint")
	}
	if effectiveHint == "" {
		effectiveHint = guessHint(doc)
	}

	switch effectiveHint {
	case hintKVTree:
		return coerceKVTreeEnvelope(doc, meta, now, seen)
	case hintRelational:
		return coerceRelationalEnvelope(doc, meta, now, seen)
	case hintDocumentStoreBatch:
		return coerceDocumentStoreBatch(doc, meta, now, seen)
	default:
		return coerceDocumentStoreSingle(doc, meta, now, seen)
	}
}

// guessHint infers a shape hint from a document's key shape when the
// caller didn't supply one.
func guessHint(doc map[string]any) string {
	_, hasPath := doc["path"]
	_, hasValue := doc["value"]
	_, hasData := doc["data"]
	if hasPath && (hasValue || hasData) {
		return hintKVTree
	}

	_, hasTable := doc["table"]
	_, hasRow := doc["row"]
	if hasTable && (hasRow || hasData) {
		return hintRelational
	}

	if len(doc) > 0 && everyValueIsMapping(doc) {
		return hintDocumentStoreBatch
	}
	return hintDocumentStoreSingle
}

func everyValueIsMapping(doc map[string]any) bool {
	for _, v := range doc {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func coerceKVTreeEnvelope(doc map[string]any, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	path, _ := doc["path"].(string)
	value, ok := doc["value"]
	if !ok {
		value = doc["data"]
	}
	nodeID := metaString(meta, "id")
	in := adapters.KVTree(value, path, nodeID, now)
	applyMetaOverrides(&in, meta)
	ref := buildSourceRef(kioku.SourceKVTree, in, meta, seen)
	return []kioku.Interaction{in}, []kioku.SourceRef{ref}
}

func coerceRelationalEnvelope(doc map[string]any, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	table, _ := doc["table"].(string)
	row, ok := doc["row"].(map[string]any)
	if !ok {
		row, _ = doc["data"].(map[string]any)
	}
	rowID := metaString(meta, "id")
	sourcePointer := metaSourcePointer(meta)
	in := adapters.RelationalRow(row, table, rowID, sourcePointer, now)
	applyMetaOverrides(&in, meta)
	ref := buildSourceRef(kioku.SourceRelational, in, meta, seen)
	return []kioku.Interaction{in}, []kioku.SourceRef{ref}
}

func coerceDocumentStoreBatch(doc map[string]any, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	batch := make(map[string]map[string]any, len(doc))
	for id, v := range doc {
		if m, ok := v.(map[string]any); ok {
			batch[id] = m
		}
	}
	collectionPath := metaString(meta, "collection_path")
	ins := adapters.DocumentStoreBatchByID(batch, collectionPath, now)

	interactions := make([]kioku.Interaction, 0, len(ins))
	sources := make([]kioku.SourceRef, 0, len(ins))
	for _, in := range ins {
		applyMetaOverrides(&in, meta)
		ref := buildSourceRef(kioku.SourceDocumentStore, in, meta, seen)
		interactions = append(interactions, in)
		sources = append(sources, ref)
	}
	return interactions, sources
}

func coerceDocumentStoreSingle(doc map[string]any, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	docID := metaString(meta, "id")
	sourcePointer := metaSourcePointer(meta)
	in := adapters.DocumentStore(doc, docID, sourcePointer, now)
	applyMetaOverrides(&in, meta)
	ref := buildSourceRef(kioku.SourceDocumentStore, in, meta, seen)
	return []kioku.Interaction{in}, []kioku.SourceRef{ref}
}

func coerceTranscript(text string, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	in := adapters.Transcript(text, meta, now)
	applyMetaOverrides(&in, meta)
	ref := buildSourceRef(kioku.SourceTranscript, in, meta, seen)
	return []kioku.Interaction{in}, []kioku.SourceRef{ref}
}

func coerceGeneric(v any, meta map[string]any, now time.Time, seen map[string]bool) ([]kioku.Interaction, []kioku.SourceRef) {
	sourcePointer := metaSourcePointer(meta)
	in := adapters.Generic(v, sourcePointer, now)
	applyMetaOverrides(&in, meta)
	ref := buildSourceRef(kioku.SourceUnknown, in, meta, seen)
	return []kioku.Interaction{in}, []kioku.SourceRef{ref}
}

// buildSourceRef derives the SourceRef paired with a just-produced
// Interaction: id from meta.source_id if supplied, else the short
// hash-derived token; hash always the full SHA256JSON of in.Data (falling
// back to in.Text when Data is absent, e.g. the transcript adapter).
func buildSourceRef(kind kioku.SourceKind, in kioku.Interaction, meta map[string]any, seen map[string]bool) kioku.SourceRef {
	kind = metaKind(meta, kind)

	var payload any = in.Data
	if payload == nil {
		payload = in.Text
	}

	id := metaString(meta, "source_id")
	if id == "" {
		id = shortSourceID(kind, payload, seen)
	} else {
		seen[id] = true
	}

	hash, _ := util.SHA256JSON(payload)

	return kioku.SourceRef{
		ID:     id,
		Kind:   kind,
		TS:     in.TS,
		Hash:   hash,
		Source: in.Source,
	}
}
