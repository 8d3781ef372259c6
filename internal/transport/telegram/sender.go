package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/guata/pkg/conv"
	"github.com/sandevgo/guata/pkg/log"
)

const maxMessageLen = 4000 // Telegram rejects anything above 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// send renders md as Telegram HTML. Follow-ups, when present, become
// one-tap reply buttons under the last chunk.
func (s *sender) send(ctx context.Context, to tele.Recipient, md string, followUps []string) error {
	chunks := splitMessage(conv.MarkdownToTelegramHTML(md), maxMessageLen)

	for i, chunk := range chunks {
		opts := []any{tele.ModeHTML, tele.NoPreview}
		if i == len(chunks)-1 && len(followUps) > 0 {
			opts = append(opts, followUpKeyboard(followUps))
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return fmt.Errorf("failed to send chunk %d: %w", i, err)
		}
	}
	return nil
}

func followUpKeyboard(followUps []string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}

	rows := make([]tele.Row, 0, len(followUps))
	for _, f := range followUps {
		rows = append(rows, m.Row(m.Text(f)))
	}
	m.Reply(rows...)
	return m
}

// splitMessage cuts text into chunks of at most maxLen bytes, preferring a
// newline in the last two thirds of a chunk and never splitting a rune.
func splitMessage(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLen
		}
		if idx := strings.LastIndex(text[:cut], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}

	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
