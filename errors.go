package kioku

import "errors"

// Sentinel errors a caller can match with errors.Is. Per-item extractor
// validation failures are never surfaced this way — they're silently
// dropped, per the error handling design (bad items don't fail a batch).
var (
	// ErrExtractorUnparseable is returned when an extractor's model response
	// could not be parsed as JSON at all. Fatal for the Interaction that
	// triggered it; the Passport is left exactly as prior Interactions left
	// it.
	ErrExtractorUnparseable = errors.New("kioku: extractor response was not parseable JSON")

	// ErrMisconfigured is returned at construction time when a Pipeline is
	// missing a credential or setting required by its selected extractor
	// backend. Never returned partway through a call.
	ErrMisconfigured = errors.New("kioku: misconfigured")

	// ErrUnknownFields is returned when decoding a Passport from JSON
	// encounters a field not in the wire contract — a typo'd field name
	// fails loudly instead of vanishing.
	ErrUnknownFields = errors.New("kioku: unknown field in passport JSON")
)

// ExtractorError wraps ErrExtractorUnparseable (or a transport failure) with
// the raw model text, for diagnostics, and the SourceRef id of the
// Interaction that failed.
type ExtractorError struct {
	SourceID string
	RawText  string
	Err      error
}

func (e *ExtractorError) Error() string {
	if e.Err != nil {
		return "kioku: extractor failed for " + e.SourceID + ": " + e.Err.Error()
	}
	return "kioku: extractor failed for " + e.SourceID
}

func (e *ExtractorError) Unwrap() error {
	return e.Err
}
