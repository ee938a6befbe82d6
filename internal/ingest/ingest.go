package ingest

import (
	"context"
	"time"

	"github.com/ashita-ai/kioku"
)

// Ingest runs coercion, applies fallback summaries, upserts every resulting
// SourceRef into passport, and touches passport. It returns the Interactions
// for the caller to feed to the extractor step — the Passport is not yet
// merged with any extracted facts at this point.
func Ingest(ctx context.Context, passport *kioku.Passport, input any, hint string, meta map[string]any, cfg Config, summarizer kioku.Summarizer, now time.Time) []kioku.Interaction {
	existingIDs := make(map[string]bool, len(passport.Sources))
	for _, ref := range passport.Sources {
		existingIDs[ref.ID] = true
	}

	interactions, sources := CoerceToInteractions(input, hint, meta, now, existingIDs)
	interactions = ApplyFallbackSummaries(ctx, interactions, cfg, summarizer)

	if userKey := metaString(meta, "user_key"); userKey != "" {
		passport.UserKey = userKey
	}
	for _, ref := range sources {
		passport.UpsertSource(ref)
	}
	passport.Touch(now)

	return interactions
}
