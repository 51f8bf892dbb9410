package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/ricardonunez-io/noteaudit/internal/config"
)

// Slack caps mrkdwn section text at 3000 characters.
const slackSectionLimit = 3000

// ShareToSlack posts a completed audit to the configured channel. Optional
// sink; callers only invoke it when both Slack fields are set, and a failure
// here surfaces as a transient notification, never as a fatal error.
func ShareToSlack(result, severity, notePath string, cfg config.SlackConfig) error {
	api := slack.New(cfg.BotToken)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			"plain_text",
			fmt.Sprintf("%s Note Audit — %s", severityToEmoji(severity), notePath),
			false, false,
		)),
		slack.NewDividerBlock(),
	}

	for _, chunk := range splitSections(result, slackSectionLimit) {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", chunk, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("mrkdwn",
			fmt.Sprintf("Audited at: %s", time.Now().Format(time.RFC1123)),
			false, false),
	))

	_, msgTimestamp, err := api.PostMessage(
		cfg.ChannelID,
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		log.Err(err).Str("channel", cfg.ChannelID).Msg("Failed to post Slack message")
		return err
	}

	log.Info().
		Str("channel", cfg.ChannelID).
		Str("timestamp", msgTimestamp).
		Msg("Audit shared to Slack")
	return nil
}

// splitSections breaks the markdown into limit-sized chunks, preferring line
// boundaries so blocks do not split mid-sentence.
func splitSections(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			chunks = append(chunks, flush(&current), line[:limit])
			line = line[limit:]
		}
		if current.Len()+len(line)+1 > limit {
			chunks = append(chunks, flush(&current))
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, flush(&current))
	}

	var out []string
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

func flush(b *strings.Builder) string {
	s := b.String()
	b.Reset()
	return s
}

func severityToEmoji(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "🔴"
	case "high":
		return "🟠"
	case "medium":
		return "🟡"
	default:
		return "🟢"
	}
}
