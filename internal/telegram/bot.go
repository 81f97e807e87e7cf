package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/pipeline"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendReport posts the per-source summary of a run.
func (b *Bot) SendReport(command string, reports []pipeline.Report, elapsed time.Duration) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatReport(command, reports, elapsed))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

// FormatReport renders reports as a MarkdownV2 message.
func FormatReport(command string, reports []pipeline.Report, elapsed time.Duration) string {
	var sb strings.Builder

	failed := pipeline.Failed(reports)
	icon := "✅"
	if failed > 0 {
		icon = "⚠️"
	}
	fmt.Fprintf(&sb, "%s *Campus harvest: %s*\n", icon, escapeMarkdown(command))
	fmt.Fprintf(&sb, "⏱ %s\n", escapeMarkdown(elapsed.Round(time.Second).String()))

	for _, r := range reports {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s *%s*\n", statusIcon(r), escapeMarkdown(r.Source))
		if r.Fetched {
			fmt.Fprintf(&sb, "📥 %s, %d raw\n", escapeMarkdown(r.Outcome.Status.String()), r.Raw)
			if r.Outcome.Reason != "" {
				fmt.Fprintf(&sb, "📝 %s\n", escapeMarkdown(r.Outcome.Reason))
			}
		}
		if r.Cleaned {
			fmt.Fprintf(&sb, "🧹 %d clean\n", r.Clean)
		}
		if r.Err != nil {
			fmt.Fprintf(&sb, "❌ %s\n", escapeMarkdown(r.Err.Error()))
		} else if r.Outcome.Err != nil {
			fmt.Fprintf(&sb, "❌ %s\n", escapeMarkdown(r.Outcome.Err.Error()))
		}
	}

	if failed > 0 {
		fmt.Fprintf(&sb, "\n%d of %d sources failed\n", failed, len(reports))
	}
	return sb.String()
}

func statusIcon(r pipeline.Report) string {
	switch {
	case !r.OK():
		return "🔴"
	case r.Fetched && r.Outcome.Status == capture.StoppedEarly:
		return "🟡"
	default:
		return "🟢"
	}
}
