// Package extractor calls the external generative-model collaborator that
// turns one Interaction's text into a candidate PassportUpdate, and
// validates/normalizes its output.
package extractor

import (
	"fmt"

	"github.com/ashita-ai/kioku"
)

// systemPrompt instructs the model to emit beliefs, not quotes: stable or
// actionable items only, snake_case keys, JSON matching the schema.
const systemPrompt = `You distill a single interaction into stable beliefs about a user, not transcript quotes.

Rules:
- Emit only facts, preferences, entities, and open loops that are stable or actionable — skip small talk and one-off remarks.
- All keys must be snake_case.
- Respond with a single JSON object matching exactly the schema given in the user message. No prose, no markdown fences.`

const responseSchema = `{
  "facts": [{"key": "string", "value": "any", "ts": "ISO-8601 string or omitted", "confidence": "number 0..1"}],
  "prefs": [{"key": "string", "value": "any", "ts": "ISO-8601 string or omitted", "confidence": "number 0..1"}],
  "entities": [{"name": "string", "type": "person|organization|project|product|place|tool|skill|concept|other", "aliases": ["string"]}],
  "open_loops": [{"item": "string", "ts": "ISO-8601 string or omitted"}]
}`

// maxPromptChars is the truncation limit applied to Interaction.ShortText
// when building the user prompt; applied independently of the ingest-side
// max_interaction_chars, whose default is the same 4000.
const maxPromptChars = 4000

// buildUserPrompt embeds the schema, the SOURCE_ID, the Interaction's type
// and ISO timestamp, and its truncated text.
func buildUserPrompt(in kioku.Interaction, sourceID string) string {
	return fmt.Sprintf(
		"SCHEMA:\n%s\n\nSOURCE_ID: %s\nTYPE: %s\nTS: %s\nTEXT:\n%s",
		responseSchema,
		sourceID,
		in.Type,
		in.TS.Format("2006-01-02T15:04:05Z07:00"),
		in.ShortText(maxPromptChars),
	)
}
