package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ricardonunez-io/noteaudit/internal/notify"
)

// toastDuration is how long a transient notification stays on the status line.
const toastDuration = 4 * time.Second

type toast struct {
	id      int
	kind    notify.Kind
	message string
	visible bool
}

type toastExpiredMsg struct {
	id int
}

// show replaces the current toast and schedules its dismissal. A newer toast
// outlives the older one's expiry because the ids differ.
func (t *toast) show(kind notify.Kind, message string) tea.Cmd {
	t.id++
	t.kind = kind
	t.message = message
	t.visible = true

	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *toast) expire(msg toastExpiredMsg) {
	if msg.id == t.id {
		t.visible = false
	}
}

func (t *toast) view() string {
	if !t.visible {
		return ""
	}
	switch t.kind {
	case notify.Error:
		return toastErrorStyle.Render(t.message)
	case notify.Success:
		return toastSuccessStyle.Render(t.message)
	default:
		return toastInfoStyle.Render(t.message)
	}
}
