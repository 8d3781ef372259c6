package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTuningConfig_Defaults(t *testing.T) {
	got := NewTuningConfig(context.Background())
	assert.Equal(t, DefaultTuning(), *got)
}

func TestNewTuningConfig_Override(t *testing.T) {
	t.Setenv("GUATA_FETCH_PER_DAY", "10")
	t.Setenv("GUATA_CACHE_TTL", "1h")

	got := NewTuningConfig(context.Background())
	assert.Equal(t, 10, got.FetchPerDay)
	assert.Equal(t, time.Hour, got.CacheTTL)
	assert.Equal(t, 5, got.FetchPerMinute)
}

func TestTelegramConfig_IsAllowed(t *testing.T) {
	open := TelegramConfig{}
	assert.True(t, open.IsAllowed(42))

	restricted := TelegramConfig{AllowedUsers: []int64{1, 2}}
	assert.True(t, restricted.IsAllowed(2))
	assert.False(t, restricted.IsAllowed(3))
}
