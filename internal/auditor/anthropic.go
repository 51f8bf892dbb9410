package auditor

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// runAnthropic is the second requester backend. Same two-message contract and
// error taxonomy as the chat-completions path, different wire client.
func runAnthropic(ctx context.Context, noteText string, cfg Config) (string, error) {
	client := newAnthropicClient(cfg)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.Model),
		MaxTokens:   int64(cfg.MaxTokens),
		Temperature: anthropic.Float(requestTemperature),
		System: []anthropic.TextBlockParam{
			{Text: cfg.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage(noteText))),
		},
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	return firstTextBlock(message)
}

func newAnthropicClient(cfg Config) anthropic.Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return anthropic.NewClient(opts...)
}

func mapAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &RemoteError{Status: apierr.StatusCode, Body: apierr.Error()}
	}
	return fmt.Errorf("anthropic API error: %w", err)
}

func firstTextBlock(message *anthropic.Message) (string, error) {
	if len(message.Content) == 0 {
		return "", ErrEmptyResponse
	}
	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
