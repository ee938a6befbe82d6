package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the counters and histograms recorded across a
// pipeline run: ingest, extract, merge, render.
type PipelineMetrics struct {
	InteractionsProcessed metric.Int64Counter
	ExtractorFailures     metric.Int64Counter
	FactsUpserted         metric.Int64Counter
	PrefsUpserted         metric.Int64Counter
	ContradictionsRecorded metric.Int64Counter
	ExtractDuration       metric.Float64Histogram
	RenderDuration        metric.Float64Histogram
}

// NewPipelineMetrics registers the kioku pipeline instruments against the
// global meter provider. Safe to call with telemetry disabled: the
// underlying meter is a no-op and instrument creation never fails in a way
// that matters here.
func NewPipelineMetrics() *PipelineMetrics {
	meter := Meter("kioku/pipeline")

	interactions, _ := meter.Int64Counter("kioku.interactions.processed",
		metric.WithDescription("Interactions produced by the ingest coalescer"),
	)
	failures, _ := meter.Int64Counter("kioku.extractor.failures",
		metric.WithDescription("Extractor calls that returned an error"),
	)
	facts, _ := meter.Int64Counter("kioku.facts.upserted",
		metric.WithDescription("Facts written or overwritten during merge"),
	)
	prefs, _ := meter.Int64Counter("kioku.prefs.upserted",
		metric.WithDescription("Preferences written or overwritten during merge"),
	)
	contradictions, _ := meter.Int64Counter("kioku.contradictions.recorded",
		metric.WithDescription("Contradictions recorded during merge"),
	)
	extractDur, _ := meter.Float64Histogram("kioku.extract.duration",
		metric.WithDescription("Time spent in a single extractor call (ms)"),
		metric.WithUnit("ms"),
	)
	renderDur, _ := meter.Float64Histogram("kioku.render.duration",
		metric.WithDescription("Time spent rendering a passport to text (ms)"),
		metric.WithUnit("ms"),
	)

	return &PipelineMetrics{
		InteractionsProcessed: interactions,
		ExtractorFailures:     failures,
		FactsUpserted:         facts,
		PrefsUpserted:         prefs,
		ContradictionsRecorded: contradictions,
		ExtractDuration:       extractDur,
		RenderDuration:        renderDur,
	}
}
