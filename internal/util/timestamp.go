// Package util provides the small, pure building blocks the rest of the
// pipeline leans on: timestamp parsing, key normalization, canonical
// hashing, safe stringification, and first-non-empty field lookup. None of
// these touch the network or the clock except where the caller explicitly
// asks for "now" (see Clock in the root package).
package util

import (
	"strconv"
	"strings"
	"time"
)

// unixMillisThreshold is the boundary below which a numeric timestamp is
// interpreted as unix seconds rather than milliseconds. 10^12 seconds would
// be the year 33658; no legitimate unix-seconds value reaches it, while every
// legitimate "current time in milliseconds" value (~1.7*10^12 in 2026) does.
const unixMillisThreshold = 1e12

// ParseTimestamp converts v into a UTC time.Time. It accepts an already
// parsed time.Time (naive, i.e. zero-offset-but-unspecified, is treated as
// UTC), a numeric value (unix seconds if below unixMillisThreshold, else
// unix milliseconds), or an ISO-8601 string (a bare "Z" suffix is accepted as
// "+00:00"). Any other shape, or a string that fails every layout, returns
// ok=false rather than an error — callers treat "absent" as a normal outcome,
// never a failure worth surfacing.
func ParseTimestamp(v any) (t time.Time, ok bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val.UTC(), true
	case int:
		return fromUnixNumber(float64(val)), true
	case int32:
		return fromUnixNumber(float64(val)), true
	case int64:
		return fromUnixNumber(float64(val)), true
	case float32:
		return fromUnixNumber(float64(val)), true
	case float64:
		return fromUnixNumber(val), true
	case string:
		return parseTimestampString(val)
	default:
		return time.Time{}, false
	}
}

func fromUnixNumber(n float64) time.Time {
	if n < unixMillisThreshold {
		sec := int64(n)
		nsec := int64((n - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC()
	}
	ms := int64(n)
	return time.UnixMilli(ms).UTC()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Numeric strings are treated as unix timestamps, same as a numeric value.
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromUnixNumber(n), true
	}
	// "Z" is a valid RFC3339 UTC designator already, but some callers send a
	// trailing "Z" on a layout time.Parse won't accept directly (e.g. with
	// fractional seconds beyond what the layout covers); normalize first.
	normalized := s
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC(), true
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
