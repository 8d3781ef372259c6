package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	ctx = WithFields(ctx, map[string]any{"request_id": "a1b2c3d4"})
	FromCtx(ctx).Info().Str("path", "/api/v1/chat").Msg("http request")

	assert.Contains(t, buf.String(), `"request_id":"a1b2c3d4"`)
	assert.Contains(t, buf.String(), `"path":"/api/v1/chat"`)
}

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	NewGooseLoggerFromCtx(ctx).Printf("OK   %s (%s)\n", "00001_kv.sql", "1.2ms")

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"component":"migrations"`)
	assert.Contains(t, buf.String(), `"message":"OK   00001_kv.sql (1.2ms)"`)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
