package log

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// GooseLogger implements goose.Logger. Migration progress is logged at
// debug level so a normal start stays quiet.
type GooseLogger struct {
	logger zerolog.Logger
}

func NewGooseLoggerFromCtx(ctx context.Context) *GooseLogger {
	return &GooseLogger{
		logger: FromCtx(ctx).With().Str("component", "migrations").Logger(),
	}
}

func (g *GooseLogger) Printf(format string, v ...any) {
	g.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *GooseLogger) Fatalf(format string, v ...any) {
	g.logger.Fatal().Msgf(format, v...)
}
