package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_Time(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	got, ok := ParseTimestamp(now)
	require.True(t, ok)
	assert.True(t, got.Equal(now))
}

func TestParseTimestamp_UnixSeconds(t *testing.T) {
	got, ok := ParseTimestamp(float64(1769940000)) // well below 1e12
	require.True(t, ok)
	assert.Equal(t, int64(1769940000), got.Unix())
}

func TestParseTimestamp_UnixMillis(t *testing.T) {
	got, ok := ParseTimestamp(float64(1769940000123))
	require.True(t, ok)
	assert.Equal(t, int64(1769940000), got.Unix())
	assert.Equal(t, 123, got.Nanosecond()/1e6)
}

func TestParseTimestamp_ISO8601(t *testing.T) {
	got, ok := ParseTimestamp("2026-02-03T10:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseTimestamp_Unparseable(t *testing.T) {
	_, ok := ParseTimestamp("not a timestamp")
	assert.False(t, ok)

	_, ok = ParseTimestamp(nil)
	assert.False(t, ok)

	_, ok = ParseTimestamp(true)
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Tone":          "tone",
		"  Tone  ":      "tone",
		"favorite-food": "favorite_food",
		"  __weird__key__!!":                "weird_key",
		"already_normal":                    "already_normal",
		"":                                  "",
		"multiple   spaces and---dashes":    "multiple_spaces_and_dashes",
		"Café":                              "caf",
		"naïve résumé":                      "na_ve_r_sum",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeKey(in), "input %q", in)
	}
}

func TestSHA256JSON_Stable(t *testing.T) {
	a := map[string]any{"b": 1, "a": "x"}
	b := map[string]any{"a": "x", "b": 1}
	ha, err := SHA256JSON(a)
	require.NoError(t, err)
	hb, err := SHA256JSON(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestSafeStringify_Scalars(t *testing.T) {
	assert.Equal(t, "null", SafeStringify(nil, 20, 20, 500))
	assert.Equal(t, "true", SafeStringify(true, 20, 20, 500))
	assert.Equal(t, "42", SafeStringify(float64(42), 20, 20, 500))
}

func TestSafeStringify_TruncatesLongStrings(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := SafeStringify(string(long), 20, 20, 500)
	assert.Equal(t, 501, len([]rune(got)))
	assert.Contains(t, got, "…")
}

func TestSafeStringify_ListOverflow(t *testing.T) {
	list := make([]any, 25)
	for i := range list {
		list[i] = i
	}
	got := SafeStringify(list, 20, 20, 500)
	assert.Contains(t, got, "…")
}

func TestSafeStringify_MapOverflow(t *testing.T) {
	m := map[string]any{}
	for i := 0; i < 25; i++ {
		m[string(rune('a'+i))] = i
	}
	got := SafeStringify(m, 20, 20, 500)
	assert.Contains(t, got, "…")
}

func TestSafeStringify_Fallback(t *testing.T) {
	got := SafeStringify(map[string]any{}, 20, 20, 500)
	assert.Equal(t, "", got)
}

func TestPickFirst(t *testing.T) {
	obj := map[string]any{
		"updatedAt": "",
		"createdAt": "2026-01-01T00:00:00Z",
	}
	v, ok := PickFirst(obj, []string{"updatedAt", "createdAt"})
	require.True(t, ok)
	assert.Equal(t, "2026-01-01T00:00:00Z", v)
}

func TestPickFirst_AllEmpty(t *testing.T) {
	obj := map[string]any{"a": "", "b": nil, "c": []any{}, "d": map[string]any{}}
	_, ok := PickFirst(obj, []string{"a", "b", "c", "d", "missing"})
	assert.False(t, ok)
}
