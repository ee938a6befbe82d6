package kioku

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParsePassport decodes a Passport from its JSON wire form. Unknown
// fields, at any nesting level, are rejected with ErrUnknownFields rather
// than silently ignored, per the documented wire contract — a typo'd field
// name fails loudly instead of vanishing. Other decode errors (malformed
// JSON, wrong value types) are returned wrapped but without that sentinel.
func ParsePassport(data []byte) (*Passport, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Passport
	if err := dec.Decode(&p); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownFields, err)
		}
		return nil, fmt.Errorf("kioku: decode passport: %w", err)
	}
	return &p, nil
}
