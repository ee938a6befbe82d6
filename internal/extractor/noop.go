package extractor

import (
	"context"

	"github.com/ashita-ai/kioku"
)

// NoopExtractor returns an empty candidate update for every Interaction.
// Lets Ingest and Merge stay exercisable (e.g. in the CLI or tests)
// without any LLM credential configured.
type NoopExtractor struct{}

func (NoopExtractor) Extract(ctx context.Context, in kioku.Interaction, sourceID string) (kioku.PassportUpdate, error) {
	return kioku.PassportUpdate{}, nil
}
