package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/guata/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	// Empty means the bot answers everyone.
	AllowedUsers []int64 `env:"TELEGRAM_ALLOWED_USERS" envSeparator:","`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) IsAllowed(id int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, u := range c.AllowedUsers {
		if u == id {
			return true
		}
	}
	return false
}
