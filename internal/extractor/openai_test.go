package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func TestNewOpenAIExtractor_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIExtractor("", "gpt-4o-mini")
	require.Error(t, err)
	assert.ErrorIs(t, err, kioku.ErrMisconfigured)
}

func TestOpenAIExtractor_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		content := `{"facts":[{"key":"tone","value":"direct"}],"prefs":[],"entities":[],"open_loops":[]}`
		resp := openAIChatResponse{Choices: []struct {
			Message openAIChatMessage `json:"message"`
		}{{Message: openAIChatMessage{Role: "assistant", Content: content}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIExtractor("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	e.BaseURL = server.URL

	update, err := e.Extract(context.Background(), kioku.Interaction{Text: "I like things direct"}, "src-1")
	require.NoError(t, err)
	require.Len(t, update.Facts, 1)
	assert.Equal(t, "tone", update.Facts[0].Key)
}

func TestOpenAIExtractor_UnparseableModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openAIChatResponse{Choices: []struct {
			Message openAIChatMessage `json:"message"`
		}{{Message: openAIChatMessage{Role: "assistant", Content: "not json"}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIExtractor("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	e.BaseURL = server.URL

	_, err = e.Extract(context.Background(), kioku.Interaction{Text: "hi"}, "src-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, kioku.ErrExtractorUnparseable)
}
