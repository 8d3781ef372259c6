package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/guata/pkg/log"
)

type HTTPConfig struct {
	Addr            string        `env:"GUATA_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"GUATA_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"GUATA_HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
