package ingest

import (
	"context"

	"github.com/ashita-ai/kioku"
)

const fallbackSummaryLiteral = "Database object (unstructured)."

// ApplyFallbackSummaries truncates every Interaction's text to
// cfg.MaxInteractionChars, then — if fallback summarization is enabled, the
// caller supplied a Summarizer, and the (already-truncated) text is still
// weak — replaces it with the summarizer's output. The summarizer is never
// trusted to return non-empty text: a blank result falls back to a fixed
// literal.
func ApplyFallbackSummaries(ctx context.Context, interactions []kioku.Interaction, cfg Config, summarizer kioku.Summarizer) []kioku.Interaction {
	out := make([]kioku.Interaction, len(interactions))
	for i, in := range interactions {
		in.Text = in.ShortText(cfg.MaxInteractionChars)

		if cfg.EnableFallbackSummarizer && summarizer != nil && IsTextTooWeak(in.Text) {
			payload := in.Data
			if payload == nil {
				payload = map[string]any{"text": in.Text}
			}
			summary, err := summarizer.Summarize(ctx, payload)
			if err == nil {
				if summary == "" {
					summary = fallbackSummaryLiteral
				}
				in.Text = summary
			}
		}

		out[i] = in
	}
	return out
}
