// Package ingest coalesces heterogeneous, weakly-structured input into a
// normalized stream of Interactions paired with SourceRefs, optionally
// rewriting weak interaction text via an external summarizer before
// handing the result back to the caller for extraction.
package ingest

// Config bundles the knobs this package needs. Callers load these from
// their own environment; this package never reads the environment itself.
type Config struct {
	// MaxInteractionChars bounds Interaction.Text before it's handed to the
	// extractor prompt builder. Default 4000.
	MaxInteractionChars int

	// EnableFallbackSummarizer, when true, invokes the Summarizer
	// collaborator on Interactions whose text is judged too weak for
	// extraction (see IsTextTooWeak).
	EnableFallbackSummarizer bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxInteractionChars:      4000,
		EnableFallbackSummarizer: true,
	}
}
