package adapters

import (
	"time"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// RelationalRow converts a single relational row envelope (a flat column →
// value mapping, typically decoded from a database driver's row scan) into
// an Interaction. It mirrors DocumentStore but probes "action" and "event"
// as additional text candidates, and records the table name in Meta when
// supplied. now is used only when row carries no timestamp field.
func RelationalRow(row map[string]any, table, rowID, sourcePointer string, now time.Time) kioku.Interaction {
	ts, ok := pickTimestamp(row, timestampFields)
	if !ok {
		ts = now
	}

	text, ok := pickText(row, relationalTextFields)
	if !ok {
		text = util.SafeStringify(row, maxStringifyKeys, maxStringifyList, maxStringifyStr)
	}

	id := rowID
	if id == "" {
		if v, ok := asString(row["id"]); ok {
			id = v
		}
	}
	if id == "" {
		id = hashPrefix(row)
	}

	var meta map[string]any
	if table != "" {
		meta = map[string]any{"table": table}
	}

	return kioku.Interaction{
		ID:     id,
		TS:     ts,
		Type:   "relational",
		Text:   text,
		Source: sourcePointer,
		Data:   row,
		Meta:   meta,
	}
}
