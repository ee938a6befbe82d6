// Package adapters converts raw, shape-specific records into
// kioku.Interaction values. Every adapter here is a pure function: no
// network calls, no clock reads beyond an explicit "now" parameter, no
// mutation of its input.
package adapters

import (
	"strings"
	"time"

	"github.com/ashita-ai/kioku/internal/util"
)

var timestampFields = []string{
	"updatedAt", "updated_at", "createdAt", "created_at", "timestamp", "date",
}

var documentTextFields = []string{
	"text", "message", "content", "description", "notes", "summary", "title", "name", "status",
}

var relationalTextFields = append(append([]string{}, documentTextFields...), "action", "event")

const (
	maxStringifyKeys = 20
	maxStringifyList = 20
	maxStringifyStr  = 500
)

func pickTimestamp(doc map[string]any, fields []string) (time.Time, bool) {
	v, ok := util.PickFirst(doc, fields)
	if !ok {
		return time.Time{}, false
	}
	return util.ParseTimestamp(v)
}

func pickText(doc map[string]any, fields []string) (string, bool) {
	v, ok := util.PickFirst(doc, fields)
	if !ok {
		return "", false
	}
	if s, isStr := v.(string); isStr {
		return s, true
	}
	return util.SafeStringify(v, maxStringifyKeys, maxStringifyList, maxStringifyStr), true
}

func hashPrefix(v any) string {
	digest, err := util.SHA256JSON(v)
	if err != nil {
		return ""
	}
	if len(digest) < 16 {
		return digest
	}
	return digest[:16]
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func slashToUnderscore(path string) string {
	return strings.ReplaceAll(path, "/", "_")
}
