package auditor

const (
	DefaultModel     = "gpt-4.1-mini"
	DefaultMaxTokens = 900
)

type Config struct {
	Provider     string
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int
	// BaseURL overrides the completion endpoint; empty means the real API.
	BaseURL string
}

func DefaultConfig(apiKey string) Config {
	return Config{
		Provider:     "openai",
		APIKey:       apiKey,
		Model:        DefaultModel,
		SystemPrompt: DefaultSystemPrompt,
		MaxTokens:    DefaultMaxTokens,
	}
}
