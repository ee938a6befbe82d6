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
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAITimeout        = 30 * time.Second
	openAITemperature    = 0.2
)

// OpenAIExtractor calls the OpenAI chat-completions API with a
// JSON-object response format constraint, over stdlib net/http with no
// SDK dependency.
type OpenAIExtractor struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// NewOpenAIExtractor constructs an extractor backed by the OpenAI
// chat-completions API. Returns kioku.ErrMisconfigured if apiKey is empty —
// missing-credential is fatal at construction time, not deferred to the
// first call.
func NewOpenAIExtractor(apiKey, model string) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for the openai extractor", kioku.ErrMisconfigured)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIExtractor{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: openAIDefaultBaseURL,
		Client:  &http.Client{Timeout: openAITimeout},
	}, nil
}

type openAIChatRequest struct {
	Model          string              `json:"model"`
	Messages       []openAIChatMessage `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat openAIResponseFmt   `json:"response_format"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFmt struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

func (e *OpenAIExtractor) Extract(ctx context.Context, in kioku.Interaction, sourceID string) (kioku.PassportUpdate, error) {
	reqBody := openAIChatRequest{
		Model: e.Model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(in, sourceID)},
		},
		Temperature:    openAITemperature,
		ResponseFormat: openAIResponseFmt{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return kioku.PassportUpdate{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return kioku.PassportUpdate{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(httpReq)
	if err != nil {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, RawText: string(body), Err: fmt.Errorf("openai: status %d", resp.StatusCode)}
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil || len(chatResp.Choices) == 0 {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, RawText: string(body), Err: kioku.ErrExtractorUnparseable}
	}

	content := chatResp.Choices[0].Message.Content
	update, err := parseAndNormalize([]byte(content), sourceID)
	if err != nil {
		return kioku.PassportUpdate{}, &kioku.ExtractorError{SourceID: sourceID, RawText: content, Err: kioku.ErrExtractorUnparseable}
	}
	return update, nil
}
