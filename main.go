package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ricardonunez-io/noteaudit/internal/auditor"
	"github.com/ricardonunez-io/noteaudit/internal/config"
	"github.com/ricardonunez-io/noteaudit/internal/note"
	"github.com/ricardonunez-io/noteaudit/internal/notify"
	"github.com/ricardonunez-io/noteaudit/internal/panel"
	"github.com/ricardonunez-io/noteaudit/internal/ui"

	_ "github.com/joho/godotenv/autoload"
)

const usage = `noteaudit runs a privacy and security audit on a markdown note.

Usage:
  noteaudit <note.md>                one-shot audit, result to stdout
  noteaudit audit [--json] <note.md>
  noteaudit tui <note.md>            interactive workspace
  noteaudit config                   print the effective configuration
`

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("NOTEAUDIT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfgDir := config.DefaultDir()
	cfg := config.Load(cfgDir)

	switch args[0] {
	case "config":
		printConfig(cfg)
	case "tui":
		if len(args) < 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		runTUI(cfg, cfgDir, args[1])
	case "audit":
		jsonMode, path := parseAuditArgs(args[1:])
		if path == "" {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		runOnce(cfg, path, jsonMode)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		runOnce(cfg, args[0], false)
	}
}

func parseAuditArgs(args []string) (jsonMode bool, path string) {
	for _, arg := range args {
		if arg == "--json" {
			jsonMode = true
			continue
		}
		path = arg
	}
	return jsonMode, path
}

// runOnce is the single user-triggered action: read the note, run the audit,
// hand the result to the panel. Every failure maps to one stderr notice and a
// non-zero exit; nothing terminates harder than that.
func runOnce(cfg config.Config, path string, jsonMode bool) {
	notifier := notify.Stderr()

	doc, err := note.Read(path)
	if err != nil {
		notifier(notify.Error, fmt.Sprintf("Could not read note: %v", err))
		os.Exit(1)
	}

	notifier(notify.Info, "Audit started…")

	if jsonMode {
		runOnceJSON(cfg, doc, notifier)
		return
	}

	result, err := auditor.Run(context.Background(), doc.Text, cfg.Auditor())
	if err != nil {
		notifier(notify.Error, notify.FailureMessage(err))
		os.Exit(1)
	}

	registry := panel.NewRegistry()
	registry.Register(panel.ResultKey, func() (panel.Surface, error) {
		return panel.NewWriterSurface(os.Stdout), nil
	})
	if err := registry.Show(panel.ResultKey, result); err != nil {
		notifier(notify.Error, notify.FailureMessage(err))
		os.Exit(1)
	}

	notifier(notify.Success, "Audit finished.")
	shareIfConfigured(cfg, result, "", doc.Path, notifier)
}

func runOnceJSON(cfg config.Config, doc note.Document, notifier notify.Func) {
	report, err := auditor.RunReport(context.Background(), doc.Text, cfg.Auditor())
	if err != nil {
		notifier(notify.Error, notify.FailureMessage(err))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		notifier(notify.Error, fmt.Sprintf("Could not encode report: %v", err))
		os.Exit(1)
	}
	fmt.Println(string(out))

	notifier(notify.Success, "Audit finished.")
	shareIfConfigured(cfg, report.Summary, report.Severity, doc.Path, notifier)
}

func shareIfConfigured(cfg config.Config, result, severity, notePath string, notifier notify.Func) {
	if cfg.Slack.BotToken == "" || cfg.Slack.ChannelID == "" {
		return
	}
	if err := notify.ShareToSlack(result, severity, notePath, cfg.Slack); err != nil {
		notifier(notify.Error, "Could not share to Slack.")
	}
}

func runTUI(cfg config.Config, cfgDir, path string) {
	doc, err := note.Read(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "noteaudit: could not read note: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, err := note.Watch(ctx, path)
	if err != nil {
		log.Warn().Err(err).Msg("Note watching disabled")
		docs = nil
	}

	program := tea.NewProgram(ui.New(cfg, cfgDir, doc, docs), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "noteaudit: %v\n", err)
		os.Exit(1)
	}
}

func printConfig(cfg config.Config) {
	fmt.Printf("provider:      %s\n", cfg.Provider)
	fmt.Printf("api key:       %s\n", cfg.MaskedKey())
	fmt.Printf("model:         %s\n", cfg.Model)
	fmt.Printf("max tokens:    %d\n", cfg.MaxTokens)
	if cfg.BaseURL != "" {
		fmt.Printf("base url:      %s\n", cfg.BaseURL)
	}
	if cfg.Slack.BotToken != "" && cfg.Slack.ChannelID != "" {
		fmt.Printf("slack channel: %s\n", cfg.Slack.ChannelID)
	}
	fmt.Printf("system prompt: %d chars\n", len(cfg.SystemPrompt))
}
