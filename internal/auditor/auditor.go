package auditor

import (
	"context"
	"strings"
)

type provider string
type providerOptions []provider

func (option provider) Match(input string) bool {
	return strings.ToUpper(input) == string(option)
}

func (options providerOptions) Includes(input string) bool {
	for _, p := range options {
		if p.Match(input) {
			return true
		}
	}
	return false
}

const (
	OPENAI    provider = "OPENAI"
	ANTHROPIC provider = "ANTHROPIC"
)

var ValidProviders providerOptions = providerOptions{
	"OPENAI",    // direct chat-completions call, the default
	"ANTHROPIC", // messages API via the official SDK
}

// Run performs one audit of noteText and returns the markdown report produced
// by the model. Exactly one network call is made per invocation; there is no
// retry, no caching, and no streaming. The precondition failures return before
// any network activity.
func Run(ctx context.Context, noteText string, cfg Config) (string, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(noteText) == "" {
		return "", ErrEmptyInput
	}

	if ANTHROPIC.Match(cfg.Provider) {
		return runAnthropic(ctx, noteText, cfg)
	}
	return runOpenAI(ctx, noteText, cfg)
}

// userMessage builds the user-role message: the fixed prefix, one blank line,
// then the note text verbatim.
func userMessage(noteText string) string {
	return userPrefix + "\n\n" + noteText
}
