// Package notify carries the transient user-visible messages and the
// diagnostic log detail behind them.
package notify

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"
	"github.com/ricardonunez-io/noteaudit/internal/panel"
)

type Kind int

const (
	Info Kind = iota
	Success
	Error
)

// Func delivers one short-lived message to the user.
type Func func(kind Kind, message string)

// Stderr is the notifier for one-shot CLI runs.
func Stderr() Func {
	return func(kind Kind, message string) {
		fmt.Fprintf(os.Stderr, "noteaudit: %s\n", message)
	}
}

// FailureMessage maps an audit failure to its one transient notification.
// Remote and parse failures get their full detail logged separately; the
// returned message stays short and never contains the API key.
func FailureMessage(err error) string {
	var remoteErr *auditor.RemoteError
	switch {
	case errors.Is(err, auditor.ErrMissingAPIKey):
		return "No API key configured. Set one in settings or the environment."
	case errors.Is(err, auditor.ErrEmptyInput):
		return "The note is empty, nothing to audit."
	case errors.As(err, &remoteErr):
		LogRemoteFailure(remoteErr)
		return fmt.Sprintf("Audit failed: remote returned status %d.", remoteErr.Status)
	case errors.Is(err, auditor.ErrParse):
		log.Error().Err(err).Msg("Audit response could not be parsed")
		return "Audit failed: the response could not be parsed."
	case errors.Is(err, auditor.ErrEmptyResponse):
		return "Audit failed: the response carried no content."
	case errors.Is(err, panel.ErrPanelUnavailable):
		return "Audit finished but no result panel could be opened."
	default:
		return fmt.Sprintf("Audit failed: %v", err)
	}
}

// LogRemoteFailure records the full remote error for later inspection.
func LogRemoteFailure(remoteErr *auditor.RemoteError) {
	log.Error().
		Int("status", remoteErr.Status).
		Str("body", remoteErr.Body).
		Msg("Remote audit call failed")
}
