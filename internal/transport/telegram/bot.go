package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/command"
	"github.com/sandevgo/guata/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	assistant core.Assistant
	router    core.CmdRouter
	sender    *sender
	formatter *command.ResponseFormatter
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	assistant core.Assistant,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		assistant: assistant,
		router:    router,
		sender:    newSender(b),
		formatter: command.NewResponseFormatter(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)
	userID := fmt.Sprintf("telegram-%d", c.Sender().ID)

	if out, ok := b.router.Execute(ctx, core.CommandRequest{
		SessionID: sessionID,
		UserID:    userID,
		Input:     c.Text(),
	}); ok {
		return b.sender.send(ctx, c.Recipient(), out, nil)
	}

	_ = c.Notify(tele.Typing)

	resp := b.assistant.ProcessMessage(ctx, c.Text(), sessionID, userID)

	log.FromCtx(ctx).Debug().
		Str("session", sessionID).
		Str("path", resp.Path).
		Int("confidence", resp.Confidence).
		Msg("telegram answer")

	return b.sender.send(ctx, c.Recipient(), b.formatter.Answer(resp), resp.FollowUps)
}
