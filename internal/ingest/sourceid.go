package ingest

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/jsonval"
)

// kindLetter is the single-character kind prefix applied before the
// non-cryptographic hash in every generated short id. chat has no letter
// of its own: a chat SourceRef (e.g. from meta "kind": "chat") gets 'u'.
func kindLetter(kind kioku.SourceKind) byte {
	switch kind {
	case kioku.SourceTranscript:
		return 't'
	case kioku.SourceDocumentStore:
		return 's'
	case kioku.SourceKVTree:
		return 'x'
	case kioku.SourceRelational:
		return 'r'
	case kioku.SourceForm:
		return 'f'
	default:
		return 'u'
	}
}

const shortIDLength = 7

// shortSourceID derives a short, stable token from payload's canonical JSON
// encoding via xxhash, base36-encoded and truncated to shortIDLength
// characters, prefixed by kind's letter. seen is the set of SourceRef ids
// already present in the Passport plus any already minted during this
// coalescence call; on collision a "-2", "-3", ... suffix is appended
// deterministically until the id is unique, and the chosen id is recorded
// into seen before return.
func shortSourceID(kind kioku.SourceKind, payload any, seen map[string]bool) string {
	canonical, err := jsonval.CanonicalJSON(payload)
	if err != nil {
		canonical = []byte(fmt.Sprint(payload))
	}
	sum := xxhash.Sum64(canonical)
	token := strconv.FormatUint(sum, 36)
	if len(token) > shortIDLength {
		token = token[:shortIDLength]
	}

	base := string(kindLetter(kind)) + token
	candidate := base
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	seen[candidate] = true
	return candidate
}
