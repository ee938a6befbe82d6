package signing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func testPassport() *kioku.Passport {
	return &kioku.Passport{
		Version:   "1.0",
		UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UserKey:   "user-42",
		Facts:     []kioku.Fact{{Key: "timezone", Value: "PST"}},
	}
}

func TestNewManager_EphemeralKeyPairRoundTrips(t *testing.T) {
	m, err := NewManager("", "", time.Hour)
	require.NoError(t, err)

	p := testPassport()
	token, err := m.Sign(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "1.0", claims.Version)
	assert.Equal(t, "user-42", claims.UserKey)
	assert.NotEmpty(t, claims.ContentHash)
}

func TestVerify_RejectsTokenFromDifferentKeyPair(t *testing.T) {
	m1, err := NewManager("", "", time.Hour)
	require.NoError(t, err)
	m2, err := NewManager("", "", time.Hour)
	require.NoError(t, err)

	token, err := m1.Sign(context.Background(), testPassport())
	require.NoError(t, err)

	_, err = m2.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	m, err := NewManager("", "", -time.Hour)
	require.NoError(t, err)

	token, err := m.Sign(context.Background(), testPassport())
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_RejectsGarbageToken(t *testing.T) {
	m, err := NewManager("", "", time.Hour)
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestSign_ContentHashChangesWithPassportContent(t *testing.T) {
	m, err := NewManager("", "", time.Hour)
	require.NoError(t, err)

	p1 := testPassport()
	token1, err := m.Sign(context.Background(), p1)
	require.NoError(t, err)
	claims1, err := m.Verify(context.Background(), token1)
	require.NoError(t, err)

	p2 := testPassport()
	p2.Facts = append(p2.Facts, kioku.Fact{Key: "tone", Value: "casual"})
	token2, err := m.Sign(context.Background(), p2)
	require.NoError(t, err)
	claims2, err := m.Verify(context.Background(), token2)
	require.NoError(t, err)

	assert.NotEqual(t, claims1.ContentHash, claims2.ContentHash)
}
