package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ashita-ai/kioku"
)

const (
	ollamaDefaultURL = "http://localhost:11434"
	ollamaTimeout    = 60 * time.Second
	ollamaNumThreads = 4
)

// OllamaExtractor calls a local Ollama chat model, so a fully offline
// extraction path exists.
type OllamaExtractor struct {
	URL    string
	Model  string
	Client *http.Client

	// KeepAlive is passed straight through to Ollama's keep_alive option,
	// controlling how long the model stays resident after this call.
	KeepAlive string

	warmedUp bool
}

// NewOllamaExtractor constructs an extractor backed by a local Ollama
// instance. Returns kioku.ErrMisconfigured if model is empty.
func NewOllamaExtractor(url, model string) (*OllamaExtractor, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: OLLAMA_MODEL is required for the ollama extractor", kioku.ErrMisconfigured)
	}
	if url == "" {
		url = ollamaDefaultURL
	}
	return &OllamaExtractor{
		URL:       url,
		Model:     model,
		Client:    &http.Client{Timeout: ollamaTimeout},
		KeepAlive: "5m",
	}, nil
}

type ollamaChatRequest struct {
	Model     string              `json:"model"`
	Messages  []openAIChatMessage `json:"messages"`
	Stream    bool                `json:"stream"`
	Format    string              `json:"format"`
	KeepAlive string              `json:"keep_alive,omitempty"`
	Options   ollamaOptions       `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumThread   int     `json:"num_thread"`
}

type ollamaChatResponse struct {
	Message openAIChatMessage `json:"message"`
}

// Warmup sends an empty-ish request to load the model into memory ahead of
// the first real extraction call, so the first caller-visible call isn't
// penalized by cold-start load time. Safe to call more than once; only the
// first call does anything.
func (e *OllamaExtractor) Warmup(ctx context.Context) error {
	if e.warmedUp {
		return nil
	}
	req := ollamaChatRequest{
		Model:     e.Model,
		Messages:  []openAIChatMessage{{Role: "user", Content: "ping"}},
		Stream:    false,
		KeepAlive: e.KeepAlive,
		Options:   ollamaOptions{Temperature: 0, NumThread: ollamaNumThreads},
	}
	_, err := e.call(ctx, req)
	if err == nil {
		e.warmedUp = true
	}
	return err
}

func (e *OllamaExtractor) Extract(ctx context.Context, in kioku.Interaction, sourceID string) (kioku.PassportUpdate, error) {
	req := ollamaChatRequest{
		Model: e.Model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(in, sourceID)},
		},
		Stream:    false,
		Format:    "json",
		KeepAlive: e.KeepAlive,
		Options:   ollamaOptions{Temperature: openAITemperature, NumThread: ollamaNumThreads},
	}

	content, err := e.call(ctx, req)
	if err != nil {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, Err: err}
	}

	update, err := parseAndNormalize([]byte(content), sourceID)
	if err != nil {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, RawText: content, Err: kioku.ErrExtractorUnparseable}
	}
	return update, nil
}

func (e *OllamaExtractor) call(ctx context.Context, req ollamaChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", kioku.ErrExtractorUnparseable
	}
	return chatResp.Message.Content, nil
}
