package kioku_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func TestParsePassport_ValidJSON(t *testing.T) {
	data := []byte(`{"version":"1.0","updated_at":"2026-03-01T00:00:00Z","user_key":"u1","facts":[],"prefs":[],"entities":[],"open_loops":[],"contradictions":[],"sources":[]}`)
	p, err := kioku.ParsePassport(data)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserKey)
}

func TestParsePassport_RejectsUnknownField(t *testing.T) {
	data := []byte(`{"version":"1.0","bogus_field":"x"}`)
	_, err := kioku.ParsePassport(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kioku.ErrUnknownFields))
}
