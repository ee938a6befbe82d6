package adapters

import (
	"fmt"
	"sort"
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// DocumentStore converts a single document-store record (a free-form
// mapping, e.g. a Mongo-style document) into an Interaction. docID and
// sourcePointer are both optional and come from the caller's envelope, not
// the document itself. now is used only when doc carries no timestamp field.
func DocumentStore(doc map[string]any, docID, sourcePointer string, now time.Time) kioku.Interaction {
	ts, ok := pickTimestamp(doc, timestampFields)
	if !ok {
		ts = now
	}

	text, ok := pickText(doc, documentTextFields)
	if !ok {
		text = util.SafeStringify(doc, maxStringifyKeys, maxStringifyList, maxStringifyStr)
	}

	id := docID
	if id == "" {
		if v, ok := asString(doc["id"]); ok {
			id = v
		}
	}
	if id == "" {
		if v, ok := asString(doc["_id"]); ok {
			id = v
		}
	}
	if id == "" {
		id = hashPrefix(doc)
	}

	return kioku.Interaction{
		ID:     id,
		TS:     ts,
		Type:   "document-store",
		Text:   text,
		Source: sourcePointer,
		Data:   doc,
	}
}

// DocumentStoreBatch converts an ordered slice of documents into one
// Interaction per document; each gets the source pointer
// collectionPath[i]. For a mapping of doc id to doc, see
// DocumentStoreBatchByID.
func DocumentStoreBatch(docs []map[string]any, collectionPath string, now time.Time) []kioku.Interaction {
	out := make([]kioku.Interaction, 0, len(docs))
	for i, doc := range docs {
		pointer := fmt.Sprintf("%s[%d]", collectionPath, i)
		out = append(out, DocumentStore(doc, "", pointer, now))
	}
	return out
}

// DocumentStoreBatchByID converts a mapping of doc id to doc into one
// Interaction per entry. Iteration order follows ids, sorted, for
// determinism.
func DocumentStoreBatchByID(docs map[string]map[string]any, collectionPath string, now time.Time) []kioku.Interaction {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]kioku.Interaction, 0, len(ids))
	for _, id := range ids {
		pointer := fmt.Sprintf("%s/%s", collectionPath, id)
		out = append(out, DocumentStore(docs[id], id, pointer, now))
	}
	return out
}
