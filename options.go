package kioku

import (
	"log/slog"
	"time"
)

// Option configures a Pipeline.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported — callers use the With* functions.
type resolvedOptions struct {
	logger                   *slog.Logger
	version                  string
	extractor                Extractor
	summarizer               Summarizer
	signer                   Signer
	clock                    Clock
	maxInteractionChars      int
	enableFallbackSummarizer bool
	renderBudgetChars        int
	extractorConcurrency     int
	extractorTimeout         time.Duration
}

// WithLogger sets the structured logger for the Pipeline.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithVersion sets the version string reported in logs.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithExtractor replaces the auto-configured extractor (openai/ollama/noop,
// chosen per KIOKU_EXTRACTOR_PROVIDER).
func WithExtractor(e Extractor) Option {
	return func(o *resolvedOptions) { o.extractor = e }
}

// WithSummarizer sets the fallback summarizer used for weak-text
// interactions. If unset, weak text is left as it is (after truncation to
// the max interaction length).
func WithSummarizer(s Summarizer) Option {
	return func(o *resolvedOptions) { o.summarizer = s }
}

// WithSigner replaces the auto-configured Ed25519 JWT signer used by
// ExportToken.
func WithSigner(s Signer) Option {
	return func(o *resolvedOptions) { o.signer = s }
}

// WithClock overrides the Pipeline's source of "now". Intended for tests;
// production callers should leave this unset (defaults to SystemClock).
func WithClock(c Clock) Option {
	return func(o *resolvedOptions) { o.clock = c }
}

// WithMaxInteractionChars overrides KIOKU_MAX_INTERACTION_CHARS.
func WithMaxInteractionChars(n int) Option {
	return func(o *resolvedOptions) { o.maxInteractionChars = n }
}

// WithRenderBudgetChars overrides KIOKU_RENDER_BUDGET_CHARS.
func WithRenderBudgetChars(n int) Option {
	return func(o *resolvedOptions) { o.renderBudgetChars = n }
}

// WithExtractorConcurrency overrides KIOKU_EXTRACTOR_CONCURRENCY. Values
// greater than 1 enable the bounded-concurrency ordered-commit extraction
// mode.
func WithExtractorConcurrency(n int) Option {
	return func(o *resolvedOptions) { o.extractorConcurrency = n }
}

// WithExtractorTimeout overrides KIOKU_EXTRACTOR_TIMEOUT, the per-call HTTP
// timeout for the auto-configured openai/ollama extractor. Has no effect
// when WithExtractor supplies a custom Extractor.
func WithExtractorTimeout(d time.Duration) Option {
	return func(o *resolvedOptions) { o.extractorTimeout = d }
}
