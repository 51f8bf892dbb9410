// Package config is the persisted settings store.
//
// One flat blob per installation, loaded once at startup and rewritten in full
// on every save. File locations, in order of precedence:
//   - <dir>/config.toml
//   - <dir>/config.json
//   - built-in defaults
//
// Persisted values win field by field when present and usable; anything
// absent or unusable keeps its default. There is no schema version, so
// unknown keys are ignored silently.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Provider     string      `toml:"provider" json:"provider"`
	APIKey       string      `toml:"api_key" json:"api_key"`
	Model        string      `toml:"model" json:"model"`
	SystemPrompt string      `toml:"system_prompt" json:"system_prompt"`
	MaxTokens    int         `toml:"max_tokens" json:"max_tokens"`
	BaseURL      string      `toml:"base_url" json:"base_url"`
	Slack        SlackConfig `toml:"slack" json:"slack"`
}

// SlackConfig enables the optional share-to-Slack sink when both fields are set.
type SlackConfig struct {
	BotToken  string `toml:"bot_token" json:"bot_token"`
	ChannelID string `toml:"channel_id" json:"channel_id"`
}

func Default() Config {
	return Config{
		Provider:     "openai",
		Model:        auditor.DefaultModel,
		SystemPrompt: auditor.DefaultSystemPrompt,
		MaxTokens:    auditor.DefaultMaxTokens,
	}
}

// DefaultDir is the per-user settings directory, ~/.noteaudit.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("Could not resolve home directory, using cwd for settings")
		return ".noteaudit"
	}
	return filepath.Join(home, ".noteaudit")
}

// Load merges the persisted blob over the defaults. A missing or unreadable
// blob is not an error; the defaults stand.
func Load(dir string) Config {
	cfg := Default()

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			log.Warn().Err(err).Str("path", tomlPath).Msg("Invalid settings blob, using defaults")
			cfg = Default()
		}
	case fileExists(jsonPath):
		data, err := os.ReadFile(jsonPath)
		if err == nil {
			err = json.Unmarshal(data, &cfg)
		}
		if err != nil {
			log.Warn().Err(err).Str("path", jsonPath).Msg("Invalid settings blob, using defaults")
			cfg = Default()
		}
	}

	return applyFallbacks(cfg)
}

// Save persists the complete configuration, overwriting any prior blob in
// full. Last writer wins.
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// applyFallbacks restores defaults for fields the blob left empty or out of
// shape, then fills an empty API key from the environment.
func applyFallbacks(cfg Config) Config {
	def := Default()

	if !auditor.ValidProviders.Includes(cfg.Provider) {
		if cfg.Provider != "" {
			log.Warn().Str("value", cfg.Provider).Msg("Invalid provider, defaulting to openai")
		}
		cfg.Provider = def.Provider
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}

	if cfg.APIKey == "" {
		cfg.APIKey = keyFromEnv(cfg.Provider)
	}

	return cfg
}

func keyFromEnv(provider string) string {
	if auditor.ANTHROPIC.Match(provider) {
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Auditor projects the settings onto the requester's configuration.
func (c Config) Auditor() auditor.Config {
	return auditor.Config{
		Provider:     c.Provider,
		APIKey:       c.APIKey,
		Model:        c.Model,
		SystemPrompt: c.SystemPrompt,
		MaxTokens:    c.MaxTokens,
		BaseURL:      c.BaseURL,
	}
}

// MaskedKey is the API key form allowed in any user-visible output.
func (c Config) MaskedKey() string {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
