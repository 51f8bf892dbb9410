package notify

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"
	"github.com/ricardonunez-io/noteaudit/internal/panel"
)

func TestFailureMessage_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", auditor.ErrMissingAPIKey, "No API key"},
		{"empty input", auditor.ErrEmptyInput, "empty"},
		{"remote", &auditor.RemoteError{Status: 401, Body: `{"error":"bad key"}`}, "status 401"},
		{"parse", fmt.Errorf("%w: unexpected token", auditor.ErrParse), "could not be parsed"},
		{"empty response", auditor.ErrEmptyResponse, "no content"},
		{"panel", panel.ErrPanelUnavailable, "no result panel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FailureMessage(tc.err)
			if !strings.Contains(got, tc.want) {
				t.Errorf("message: got %q, want it to mention %q", got, tc.want)
			}
		})
	}
}

func TestFailureMessage_RemoteBodyStaysOutOfMessage(t *testing.T) {
	err := &auditor.RemoteError{Status: 500, Body: "internal detail that belongs in the log"}
	got := FailureMessage(err)
	if strings.Contains(got, "internal detail") {
		t.Errorf("message must not carry the raw remote body: %q", got)
	}
}

func TestFailureMessage_WrappedRemoteError(t *testing.T) {
	err := fmt.Errorf("run failed: %w", &auditor.RemoteError{Status: 429, Body: "slow down"})
	got := FailureMessage(err)
	if !strings.Contains(got, "429") {
		t.Errorf("wrapped remote error should still map by status: %q", got)
	}
}

func TestFailureMessage_Unknown(t *testing.T) {
	got := FailureMessage(errors.New("disk on fire"))
	if !strings.Contains(got, "disk on fire") {
		t.Errorf("unknown errors keep their text: %q", got)
	}
}

func TestSplitSections(t *testing.T) {
	if got := splitSections("", 10); got != nil {
		t.Errorf("empty input: got %v, want nil", got)
	}

	short := "## Summary\nclean note"
	if got := splitSections(short, 3000); len(got) != 1 || got[0] != short {
		t.Errorf("short input should be one chunk: %v", got)
	}

	long := strings.Repeat("finding line\n", 50)
	chunks := splitSections(long, 100)
	if len(chunks) < 2 {
		t.Fatalf("long input should split: got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
	if !strings.Contains(strings.Join(chunks, "\n"), "finding line") {
		t.Error("chunks lost the content")
	}
}

func TestSeverityToEmoji(t *testing.T) {
	if severityToEmoji("CRITICAL") != "🔴" {
		t.Error("critical should map to red")
	}
	if severityToEmoji("unknown") != "🟢" {
		t.Error("unknown severity should map to green")
	}
}
