package auditor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the fixed chat-completion endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/chat/completions"

// requestTemperature is fixed; audits should be repeatable, not creative.
const requestTemperature = 0.1

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// buildMessages constructs the two ordered messages every audit request
// carries: the system prompt, then the prefixed note text.
func buildMessages(noteText string, cfg Config) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: cfg.SystemPrompt},
		{Role: "user", Content: userMessage(noteText)},
	}
}

func runOpenAI(ctx context.Context, noteText string, cfg Config) (string, error) {
	body := chatRequest{
		Model:       cfg.Model,
		Messages:    buildMessages(noteText, cfg),
		Temperature: requestTemperature,
		MaxTokens:   cfg.MaxTokens,
	}
	return postChat(ctx, body, cfg)
}

func postChat(ctx context.Context, body chatRequest, cfg Config) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := cfg.BaseURL
	if url == "" {
		url = DefaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &RemoteError{Status: resp.StatusCode, Body: string(raw)}
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("Completion endpoint returned an error")
		return "", remoteErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Error().
			Str("body", string(raw)).
			Msg("Completion endpoint returned unparseable JSON")
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return parsed.Choices[0].Message.Content, nil
}
