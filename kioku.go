package kioku

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/kioku/internal/config"
	"github.com/ashita-ai/kioku/internal/extractor"
	"github.com/ashita-ai/kioku/internal/ingest"
	"github.com/ashita-ai/kioku/internal/renderer"
	"github.com/ashita-ai/kioku/internal/resolver"
	"github.com/ashita-ai/kioku/internal/signing"
	"github.com/ashita-ai/kioku/internal/telemetry"
)

// Pipeline drives a Passport through Ingest, Extract, and Merge, and
// renders it on demand. Construct with New() and functional options.
type Pipeline struct {
	cfg        config.Config
	logger     *slog.Logger
	version    string
	extractor  Extractor
	summarizer Summarizer
	signer     Signer
	clock      Clock
	metrics    *telemetry.PipelineMetrics
	tracer     trace.Tracer
}

// New constructs a Pipeline: loads .env (non-fatal if absent), loads
// config.Config from the environment, auto-configures an extractor and
// signer from that config unless overridden by an option, and applies any
// remaining options.
func New(opts ...Option) (*Pipeline, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("kioku: load config: %w", err)
	}
	if o.maxInteractionChars != 0 {
		cfg.MaxInteractionChars = o.maxInteractionChars
	}
	if o.renderBudgetChars != 0 {
		cfg.RenderBudgetChars = o.renderBudgetChars
	}
	if o.extractorConcurrency != 0 {
		cfg.ExtractorConcurrency = o.extractorConcurrency
	}
	if o.extractorTimeout != 0 {
		cfg.ExtractorTimeout = o.extractorTimeout
	}

	version := o.version
	if version == "" {
		version = "dev"
	}

	ex := o.extractor
	if ex == nil {
		ex, err = newExtractorFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
		}
	}

	signer := o.signer
	if signer == nil {
		mgr, err := signing.NewManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, 24*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
		}
		signer = mgr
	}

	clock := o.clock
	if clock == nil {
		clock = SystemClock{}
	}

	logger.Info("kioku pipeline ready", "version", version, "extractor_provider", cfg.ExtractorProvider)

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		version:    version,
		extractor:  ex,
		summarizer: o.summarizer,
		signer:     signer,
		clock:      clock,
		metrics:    telemetry.NewPipelineMetrics(),
		tracer:     telemetry.Tracer("kioku/pipeline"),
	}, nil
}

func newExtractorFromConfig(cfg config.Config) (Extractor, error) {
	switch cfg.ExtractorProvider {
	case "openai":
		ex, err := extractor.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.ExtractorModel)
		if err != nil {
			return nil, err
		}
		ex.Client.Timeout = cfg.ExtractorTimeout
		return ex, nil
	case "ollama":
		ex, err := extractor.NewOllamaExtractor(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, err
		}
		ex.Client.Timeout = cfg.ExtractorTimeout
		return ex, nil
	default:
		return extractor.NoopExtractor{}, nil
	}
}

// Ingest coalesces input into Interactions, applies fallback summaries for
// weak text, and upserts the resulting SourceRefs into passport. It does
// not call the extractor — feed the returned Interactions to Extract.
func (p *Pipeline) Ingest(ctx context.Context, passport *Passport, input any, hint string, meta map[string]any) []Interaction {
	ctx, span := p.tracer.Start(ctx, "kioku.ingest")
	defer span.End()

	now := p.clock.Now()
	icfg := ingest.Config{
		MaxInteractionChars:      p.cfg.MaxInteractionChars,
		EnableFallbackSummarizer: p.cfg.EnableFallbackSummarizer,
	}
	interactions := ingest.Ingest(ctx, passport, input, hint, meta, icfg, p.summarizer, now)
	p.metrics.InteractionsProcessed.Add(ctx, int64(len(interactions)))
	return interactions
}

// Extract runs the configured Extractor over each Interaction and returns
// the combined PassportUpdate. A transport or JSON-parse failure (an
// *ExtractorError wrapping ErrExtractorUnparseable, or any other error the
// Extractor returns) is fatal for the Interaction that triggered it: Extract
// stops there and returns the update combined from every earlier
// Interaction's successful extraction, plus that error. It never attempts
// the Interactions after the failing one.
//
// When the Pipeline's extractor concurrency is greater than 1, calls run
// concurrently in a bounded errgroup, but results are collected into a
// pre-sized slice by index. On error, the errgroup's context is canceled
// and Extract still truncates to the first failing index in original
// order, not completion order, so the combined update never includes an
// Interaction past the first failure even though later calls may have
// already been in flight.
func (p *Pipeline) Extract(ctx context.Context, interactions []Interaction) (PassportUpdate, error) {
	ctx, span := p.tracer.Start(ctx, "kioku.extract")
	defer span.End()

	results := make([]PassportUpdate, len(interactions))

	concurrency := p.cfg.ExtractorConcurrency
	if concurrency <= 1 {
		for i, in := range interactions {
			update, err := p.extractOne(ctx, in)
			if err != nil {
				return combineUpdates(results[:i]), err
			}
			results[i] = update
		}
		return combineUpdates(results), nil
	}

	errs := make([]error, len(interactions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range interactions {
		i, in := i, in
		g.Go(func() error {
			update, err := p.extractOne(gctx, in)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = update
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return combineUpdates(results[:i]), err
		}
	}
	return combineUpdates(results), nil
}

func combineUpdates(results []PassportUpdate) PassportUpdate {
	var combined PassportUpdate
	for _, r := range results {
		combined.Facts = append(combined.Facts, r.Facts...)
		combined.Prefs = append(combined.Prefs, r.Prefs...)
		combined.Entities = append(combined.Entities, r.Entities...)
		combined.OpenLoops = append(combined.OpenLoops, r.OpenLoops...)
	}
	return combined
}

// extractOne calls the Extractor once and records metrics. It returns the
// Extractor's error unchanged — the caller decides whether that error is
// fatal for the batch.
func (p *Pipeline) extractOne(ctx context.Context, in Interaction) (PassportUpdate, error) {
	start := time.Now()
	update, err := p.extractor.Extract(ctx, in, in.Source)
	p.metrics.ExtractDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		p.metrics.ExtractorFailures.Add(ctx, 1)
		p.logger.Warn("kioku: extractor call failed", "source", in.Source, "error", err)
		return PassportUpdate{}, err
	}
	return update, nil
}

// Merge applies update to passport in place and returns accounting of what
// changed.
func (p *Pipeline) Merge(passport *Passport, update PassportUpdate) ResolveStats {
	ctx, span := p.tracer.Start(context.Background(), "kioku.merge")
	defer span.End()

	now := p.clock.Now()
	stats := resolver.MergePassportUpdate(passport, update, now)
	p.metrics.FactsUpserted.Add(ctx, int64(stats.FactsUpserted))
	p.metrics.PrefsUpserted.Add(ctx, int64(stats.PrefsUpserted))
	p.metrics.ContradictionsRecorded.Add(ctx, int64(stats.ContradictionsAdded))
	return stats
}

// Process runs Ingest, Extract, and Merge in sequence against passport and
// returns the resulting ResolveStats. This is the convenience entry point
// for callers who don't need to inspect intermediate Interactions.
//
// If Extract fails partway through, whatever it managed to extract from
// earlier Interactions is still merged — passport ends up exactly where
// prior Interactions left it — and the error is returned to the caller.
func (p *Pipeline) Process(ctx context.Context, passport *Passport, input any, hint string, meta map[string]any) (ResolveStats, error) {
	interactions := p.Ingest(ctx, passport, input, hint, meta)
	update, err := p.Extract(ctx, interactions)
	stats := p.Merge(passport, update)
	return stats, err
}

// Render produces a budget-bounded plain-text briefing from passport. A
// budgetChars of 0 or less uses the configured render budget
// (KIOKU_RENDER_BUDGET_CHARS / WithRenderBudgetChars).
func (p *Pipeline) Render(passport *Passport, budgetChars int, header string) string {
	ctx, span := p.tracer.Start(context.Background(), "kioku.render")
	defer span.End()

	if budgetChars <= 0 {
		budgetChars = p.cfg.RenderBudgetChars
	}

	start := time.Now()
	out := renderer.ExportContext(passport, budgetChars, header)
	p.metrics.RenderDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	return out
}

// ExportToken signs passport and returns a portable integrity token.
func (p *Pipeline) ExportToken(ctx context.Context, passport *Passport) (string, error) {
	return p.signer.Sign(ctx, passport)
}

// VerifyToken validates a token produced by ExportToken and returns its
// claims.
func (p *Pipeline) VerifyToken(ctx context.Context, token string) (PassportClaims, error) {
	return p.signer.Verify(ctx, token)
}
