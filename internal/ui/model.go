// Package ui is the terminal workspace: the result panel, the settings form,
// and the status line that carries transient notifications.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"
	"github.com/ricardonunez-io/noteaudit/internal/config"
	"github.com/ricardonunez-io/noteaudit/internal/note"
	"github.com/ricardonunez-io/noteaudit/internal/notify"
	"github.com/ricardonunez-io/noteaudit/internal/panel"
)

type auditDoneMsg struct {
	run    uuid.UUID
	result string
	err    error
}

type docChangedMsg struct {
	doc note.Document
}

type slackSharedMsg struct {
	err error
}

type Model struct {
	cfg      config.Config
	cfgDir   string
	registry *panel.Registry
	doc      note.Document
	docs     <-chan note.Document

	vp       viewport.Model
	vpReady  bool
	rendered bool

	settings     settingsModel
	showSettings bool

	// activeRun is the token of the most recently triggered audit. A finished
	// audit only lands if its token still matches, so a stale response can
	// never overwrite a newer result.
	activeRun uuid.UUID
	auditing  bool

	toast toast

	width  int
	height int
}

func New(cfg config.Config, cfgDir string, doc note.Document, docs <-chan note.Document) Model {
	registry := panel.NewRegistry()
	registry.Register(panel.ResultKey, func() (panel.Surface, error) {
		return panel.NewTextSurface(), nil
	})

	return Model{
		cfg:      cfg,
		cfgDir:   cfgDir,
		registry: registry,
		doc:      doc,
		docs:     docs,
		settings: newSettings(cfg),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForDoc(m.docs)
}

func waitForDoc(docs <-chan note.Document) tea.Cmd {
	if docs == nil {
		return nil
	}
	return func() tea.Msg {
		doc, ok := <-docs
		if !ok {
			return nil
		}
		return docChangedMsg{doc: doc}
	}
}

func runAuditCmd(run uuid.UUID, text string, cfg auditor.Config) tea.Cmd {
	return func() tea.Msg {
		result, err := auditor.Run(context.Background(), text, cfg)
		return auditDoneMsg{run: run, result: result, err: err}
	}
}

func shareCmd(result, notePath string, cfg config.SlackConfig) tea.Cmd {
	return func() tea.Msg {
		return slackSharedMsg{err: notify.ShareToSlack(result, "", notePath, cfg)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := m.height - 3
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.vpReady {
			m.vp = viewport.New(m.width-4, bodyHeight)
			m.vpReady = true
		} else {
			m.vp.Width = m.width - 4
			m.vp.Height = bodyHeight
		}
		m.settings.prompt.SetWidth(m.width - 8)
		m.syncViewport()
		return m, nil

	case auditDoneMsg:
		if msg.run != m.activeRun {
			log.Debug().Str("run", msg.run.String()).Msg("Dropping stale audit result")
			return m, nil
		}
		m.auditing = false
		if msg.err != nil {
			return m, m.toast.show(notify.Error, notify.FailureMessage(msg.err))
		}
		if err := m.registry.Show(panel.ResultKey, msg.result); err != nil {
			return m, m.toast.show(notify.Error, notify.FailureMessage(err))
		}
		m.syncViewport()
		return m, m.toast.show(notify.Success, "Audit finished.")

	case docChangedMsg:
		m.doc = msg.doc
		return m, tea.Batch(
			m.toast.show(notify.Info, "Note reloaded from disk."),
			waitForDoc(m.docs),
		)

	case slackSharedMsg:
		if msg.err != nil {
			return m, m.toast.show(notify.Error, "Could not share to Slack.")
		}
		return m, m.toast.show(notify.Success, "Shared to Slack.")

	case toastExpiredMsg:
		m.toast.expire(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showSettings {
		switch msg.String() {
		case "esc":
			m.showSettings = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.settings, cmd = m.settings.Update(msg)
			m.persistSettings()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		return m.triggerAudit()
	case "r":
		m.rendered = !m.rendered
		m.syncViewport()
		return m, nil
	case "s":
		m.showSettings = true
		return m, nil
	case "x":
		return m.triggerShare()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// triggerAudit issues a fresh run token and starts the audit. A still-running
// prior audit is superseded: its result will carry the old token and be
// dropped on arrival.
func (m Model) triggerAudit() (tea.Model, tea.Cmd) {
	m.activeRun = uuid.New()
	m.auditing = true
	return m, tea.Batch(
		m.toast.show(notify.Info, "Audit started…"),
		runAuditCmd(m.activeRun, m.doc.Text, m.cfg.Auditor()),
	)
}

func (m Model) triggerShare() (tea.Model, tea.Cmd) {
	if m.cfg.Slack.BotToken == "" || m.cfg.Slack.ChannelID == "" {
		return m, m.toast.show(notify.Info, "Slack is not configured.")
	}
	text := m.resultText()
	if text == "" {
		return m, m.toast.show(notify.Info, "Nothing to share yet.")
	}
	return m, shareCmd(text, m.doc.Path, m.cfg.Slack)
}

// persistSettings saves the blob on every edit, the way the settings form in
// a host plugin would.
func (m *Model) persistSettings() {
	m.cfg = m.settings.apply(m.cfg)
	if err := config.Save(m.cfgDir, m.cfg); err != nil {
		log.Err(err).Msg("Failed to save settings")
	}
}

func (m *Model) resultText() string {
	s, ok := m.registry.Surface(panel.ResultKey)
	if !ok {
		return ""
	}
	return s.(*panel.TextSurface).Content()
}

// syncViewport pushes the panel's raw text into the viewport, optionally
// through glamour. The surface itself always holds the raw string.
func (m *Model) syncViewport() {
	if !m.vpReady {
		return
	}
	text := m.resultText()
	if text == "" {
		m.vp.SetContent("No audit yet. Press a to run one.")
		return
	}
	if m.rendered {
		if out, err := renderMarkdown(text, m.vp.Width); err == nil {
			m.vp.SetContent(out)
			return
		}
	}
	m.vp.SetContent(text)
}

func renderMarkdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	header := headerStyle.Width(m.width).Render("noteaudit — " + m.doc.Path)

	var body string
	if m.showSettings {
		body = m.settings.View(m.width)
	} else {
		body = panelStyle.Width(m.width - 2).Render(m.vp.View())
	}

	status := m.statusLine()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) statusLine() string {
	if t := m.toast.view(); t != "" {
		return statusStyle.Render(t)
	}
	if m.auditing {
		return statusStyle.Render("auditing…")
	}
	if m.showSettings {
		return statusStyle.Render("tab next field · esc close settings")
	}
	return statusStyle.Render("a audit · r rendered · s settings · x share · q quit")
}
