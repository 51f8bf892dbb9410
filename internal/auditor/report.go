package auditor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Report is the structured form of an audit, for callers that want machine
// readable findings instead of the markdown panel text.
type Report struct {
	Severity  string    `json:"severity" jsonschema:"description=Overall severity: one of low medium high critical"`
	Summary   string    `json:"summary" jsonschema:"description=One-paragraph overall assessment"`
	Findings  []Finding `json:"findings" jsonschema:"description=Individual findings ordered most severe first"`
	Timestamp string    `json:"timestamp" jsonschema:"description=ISO 8601 timestamp of the audit"`
}

type Finding struct {
	Title    string `json:"title" jsonschema:"description=Short name of the finding"`
	Detail   string `json:"detail" jsonschema:"description=Where in the note it sits and why it matters; credentials masked"`
	Severity string `json:"severity" jsonschema:"description=One of: low medium high critical"`
}

// RunReport performs one audit and asks the model for a structured JSON report
// instead of markdown. Preconditions and error taxonomy match Run.
func RunReport(ctx context.Context, noteText string, cfg Config) (*Report, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(noteText) == "" {
		return nil, ErrEmptyInput
	}

	var raw string
	var err error
	if ANTHROPIC.Match(cfg.Provider) {
		raw, err = reportAnthropic(ctx, noteText, cfg)
	} else {
		raw, err = reportOpenAI(ctx, noteText, cfg)
	}
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	report.Severity = NormalizeSeverity(report.Severity)
	for i := range report.Findings {
		report.Findings[i].Severity = NormalizeSeverity(report.Findings[i].Severity)
	}
	if report.Timestamp == "" {
		report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return &report, nil
}

func reportOpenAI(ctx context.Context, noteText string, cfg Config) (string, error) {
	reportCfg := cfg
	reportCfg.SystemPrompt = cfg.SystemPrompt + reportSystemSuffix

	body := chatRequest{
		Model:       cfg.Model,
		Messages:    buildMessages(noteText, reportCfg),
		Temperature: requestTemperature,
		MaxTokens:   cfg.MaxTokens,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: map[string]any{
				"name":   "note_audit_report",
				"strict": true,
				"schema": generateSchema(&Report{}),
			},
		},
	}
	return postChat(ctx, body, cfg)
}

func reportAnthropic(ctx context.Context, noteText string, cfg Config) (string, error) {
	client := newAnthropicClient(cfg)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.Model),
		MaxTokens:   int64(cfg.MaxTokens),
		Temperature: anthropic.Float(requestTemperature),
		System: []anthropic.TextBlockParam{
			{Text: cfg.SystemPrompt + reportSystemSuffix},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage(noteText))),
		},
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{
				Schema: generateSchema(&Report{}),
			},
		},
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	return firstTextBlock(message)
}

func generateSchema(v any) map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(v)
	b, _ := json.Marshal(s)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
