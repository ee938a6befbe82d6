package util

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ashita-ai/kioku/internal/jsonval"
)

// SHA256JSON returns the hex-encoded SHA-256 digest of v's canonical JSON
// encoding (jsonval.CanonicalJSON): keys sorted at every level, so the
// result is stable regardless of map insertion order. Used both for
// SourceRef.hash (integrity) and for deriving deterministic ids from a
// payload.
func SHA256JSON(v any) (string, error) {
	canonical, err := jsonval.CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
