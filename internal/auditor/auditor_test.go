package auditor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig("sk-test-key")
	cfg.BaseURL = baseURL
	return cfg
}

func TestBuildMessages_OrderAndContent(t *testing.T) {
	cfg := DefaultConfig("sk-test-key")
	cfg.SystemPrompt = "audit instructions"
	note := "# My note\n\npassword: hunter2"

	messages := buildMessages(note, cfg)

	if len(messages) != 2 {
		t.Fatalf("messages: got %d, want 2", len(messages))
	}
	if messages[0].Role != "system" || messages[1].Role != "user" {
		t.Errorf("roles: got [%s, %s], want [system, user]", messages[0].Role, messages[1].Role)
	}
	if messages[0].Content != "audit instructions" {
		t.Errorf("system content: got %q", messages[0].Content)
	}
	want := userPrefix + "\n\n" + note
	if messages[1].Content != want {
		t.Errorf("user content: got %q, want prefix + blank line + verbatim note", messages[1].Content)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "   "

	_, err := Run(context.Background(), "some note", cfg)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error: got %v, want ErrMissingAPIKey", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("missing api key must not make a network call")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := Run(context.Background(), "  \n\t ", testConfig(srv.URL))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error: got %v, want ErrEmptyInput", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("empty input must not make a network call")
	}
}

func TestRun_RequestShape(t *testing.T) {
	var captured chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Model = "gpt-4.1-mini"
	cfg.MaxTokens = 512

	if _, err := Run(context.Background(), "note body", cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer sk-test-key" {
		t.Errorf("authorization header: got %q", auth)
	}
	if captured.Model != "gpt-4.1-mini" {
		t.Errorf("model: got %q", captured.Model)
	}
	if captured.Temperature != 0.1 {
		t.Errorf("temperature: got %v, want 0.1", captured.Temperature)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("max_tokens: got %d, want 512", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages: got %d, want 2", len(captured.Messages))
	}
	if !strings.HasPrefix(captured.Messages[1].Content, userPrefix+"\n\n") {
		t.Error("user message must start with the fixed prefix and a blank line")
	}
	if !strings.HasSuffix(captured.Messages[1].Content, "note body") {
		t.Error("user message must end with the verbatim note text")
	}
}

func TestRun_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	_, err := Run(context.Background(), "note", testConfig(srv.URL))

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error: got %v, want RemoteError", err)
	}
	if remoteErr.Status != 401 {
		t.Errorf("status: got %d, want 401", remoteErr.Status)
	}
	if remoteErr.Body != `{"error":"bad key"}` {
		t.Errorf("body: got %q", remoteErr.Body)
	}
}

func TestRun_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := Run(context.Background(), "note", testConfig(srv.URL))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error: got %v, want ErrParse", err)
	}
}

func TestRun_EmptyResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"no content", `{"choices":[{"message":{}}]}`},
		{"unrelated shape", `{"id":"cmpl-1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := Run(context.Background(), "note", testConfig(srv.URL))
			if !errors.Is(err, ErrEmptyResponse) {
				t.Fatalf("error: got %v, want ErrEmptyResponse", err)
			}
		})
	}
}

func TestRun_Success(t *testing.T) {
	want := "## High-Risk Items\n- password on line 3"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": want}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	got, err := Run(context.Background(), "note", testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("result: got %q, want the content string unmodified", got)
	}
}

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"CRITICAL", "critical"},
		{"high", "high"},
		{"Medium", "medium"},
		{"low", "low"},
		{"", "medium"},
		{"catastrophic", "medium"},
	}
	for _, tc := range cases {
		if got := NormalizeSeverity(tc.input); got != tc.want {
			t.Errorf("NormalizeSeverity(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRunReport_ParsesStructuredOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Error("report request must carry a json_schema response format")
		}
		report := `{"severity":"HIGH","summary":"one credential found","findings":[{"title":"API key","detail":"line 2","severity":"high"}]}`
		w.Write([]byte(`{"choices":[{"message":{"content":` + mustQuote(report) + `}}]}`))
	}))
	defer srv.Close()

	report, err := RunReport(context.Background(), "note", testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Severity != "high" {
		t.Errorf("severity: got %q, want normalized high", report.Severity)
	}
	if len(report.Findings) != 1 || report.Findings[0].Title != "API key" {
		t.Errorf("findings: got %+v", report.Findings)
	}
	if report.Timestamp == "" {
		t.Error("missing timestamp should be filled in")
	}
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
