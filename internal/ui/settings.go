package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"
	"github.com/ricardonunez-io/noteaudit/internal/config"
)

const (
	fieldAPIKey = iota
	fieldModel
	fieldMaxTokens
	fieldPrompt
	fieldCount
)

// settingsModel is the settings form: API key (masked), model, max tokens,
// system prompt. Every edit writes the full blob back to disk immediately.
type settingsModel struct {
	apiKey    textinput.Model
	model     textinput.Model
	maxTokens textinput.Model
	prompt    textarea.Model
	focus     int
}

func newSettings(cfg config.Config) settingsModel {
	apiKey := textinput.New()
	apiKey.Placeholder = "sk-..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.SetValue(cfg.APIKey)
	apiKey.Focus()

	model := textinput.New()
	model.Placeholder = auditor.DefaultModel
	model.SetValue(cfg.Model)

	maxTokens := textinput.New()
	maxTokens.Placeholder = strconv.Itoa(auditor.DefaultMaxTokens)
	maxTokens.SetValue(strconv.Itoa(cfg.MaxTokens))

	prompt := textarea.New()
	prompt.Placeholder = "Audit instructions"
	prompt.SetValue(cfg.SystemPrompt)
	prompt.SetHeight(8)

	return settingsModel{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		prompt:    prompt,
	}
}

func (s settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			s.setFocus((s.focus + 1) % fieldCount)
			return s, nil
		case "shift+tab":
			s.setFocus((s.focus + fieldCount - 1) % fieldCount)
			return s, nil
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldAPIKey:
		s.apiKey, cmd = s.apiKey.Update(msg)
	case fieldModel:
		s.model, cmd = s.model.Update(msg)
	case fieldMaxTokens:
		s.maxTokens, cmd = s.maxTokens.Update(msg)
	case fieldPrompt:
		s.prompt, cmd = s.prompt.Update(msg)
	}
	return s, cmd
}

func (s *settingsModel) setFocus(focus int) {
	s.focus = focus
	s.apiKey.Blur()
	s.model.Blur()
	s.maxTokens.Blur()
	s.prompt.Blur()
	switch focus {
	case fieldAPIKey:
		s.apiKey.Focus()
	case fieldModel:
		s.model.Focus()
	case fieldMaxTokens:
		s.maxTokens.Focus()
	case fieldPrompt:
		s.prompt.Focus()
	}
}

// apply folds the form values into cfg, falling back to defaults for fields
// that do not parse.
func (s settingsModel) apply(cfg config.Config) config.Config {
	cfg.APIKey = strings.TrimSpace(s.apiKey.Value())
	cfg.Model = strings.TrimSpace(s.model.Value())
	if cfg.Model == "" {
		cfg.Model = auditor.DefaultModel
	}
	cfg.MaxTokens = parseMaxTokens(s.maxTokens.Value())
	cfg.SystemPrompt = s.prompt.Value()
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = auditor.DefaultSystemPrompt
	}
	return cfg
}

func parseMaxTokens(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return auditor.DefaultMaxTokens
	}
	return n
}

func (s settingsModel) View(width int) string {
	form := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("API key"),
		s.apiKey.View(),
		"",
		labelStyle.Render("Model"),
		s.model.View(),
		"",
		labelStyle.Render("Max tokens"),
		s.maxTokens.View(),
		"",
		labelStyle.Render("System prompt"),
		s.prompt.View(),
	)
	return panelStyle.Width(width - 2).Render(form)
}
