package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/guata/pkg/log"
)

// TuningConfig holds the pipeline thresholds and budgets.
type TuningConfig struct {
	// Similarity cache
	CacheTTL               time.Duration `env:"GUATA_CACHE_TTL" envDefault:"24h"`
	CacheCapacity          int           `env:"GUATA_CACHE_CAPACITY" envDefault:"1000"`
	CacheSimilarity        float64       `env:"GUATA_CACHE_SIMILARITY" envDefault:"0.85"`
	CacheEvictionHighWater float64       `env:"GUATA_CACHE_EVICTION_HIGH_WATER" envDefault:"0.8"`
	CacheEvictionFraction  float64       `env:"GUATA_CACHE_EVICTION_FRACTION" envDefault:"0.2"`

	// Fetch coordinator
	FetchSpacing   time.Duration `env:"GUATA_FETCH_SPACING" envDefault:"3s"`
	FetchPerMinute int           `env:"GUATA_FETCH_PER_MINUTE" envDefault:"5"`
	FetchPerHour   int           `env:"GUATA_FETCH_PER_HOUR" envDefault:"30"`
	FetchPerDay    int           `env:"GUATA_FETCH_PER_DAY" envDefault:"80"`
	FetchCacheTTL  time.Duration `env:"GUATA_FETCH_CACHE_TTL" envDefault:"24h"`
	FetchCooldown  time.Duration `env:"GUATA_FETCH_QUOTA_COOLDOWN" envDefault:"1h"`

	// Orchestrator
	ExternalTimeout time.Duration `env:"GUATA_EXTERNAL_TIMEOUT" envDefault:"10s"`
	PromptTokens    int           `env:"GUATA_PROMPT_TOKENS" envDefault:"3000"`
	HistoryMessages int           `env:"GUATA_HISTORY_MESSAGES" envDefault:"3"`

	// Learning store
	LearningInitialConfidence    float64 `env:"GUATA_LEARNING_INITIAL_CONFIDENCE" envDefault:"0.8"`
	LearningInitialEffectiveness float64 `env:"GUATA_LEARNING_INITIAL_EFFECTIVENESS" envDefault:"1.0"`
	LearningMinConfidence        float64 `env:"GUATA_LEARNING_MIN_CONFIDENCE" envDefault:"0.7"`
	LearningMinEffectiveness     float64 `env:"GUATA_LEARNING_MIN_EFFECTIVENESS" envDefault:"0.4"`
	LearningSignatureWords       int     `env:"GUATA_LEARNING_SIGNATURE_WORDS" envDefault:"5"`
	LearningRecentTopics         int     `env:"GUATA_LEARNING_RECENT_TOPICS" envDefault:"5"`
	TrustRaise                   float64 `env:"GUATA_TRUST_RAISE" envDefault:"0.1"`
	TrustLower                   float64 `env:"GUATA_TRUST_LOWER" envDefault:"0.05"`
	TrustRaiseAbove              float64 `env:"GUATA_TRUST_RAISE_ABOVE" envDefault:"0.7"`
	TrustLowerBelow              float64 `env:"GUATA_TRUST_LOWER_BELOW" envDefault:"0.3"`
}

func NewTuningConfig(ctx context.Context) *TuningConfig {
	c := &TuningConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Tuning config")
	}
	return c
}

// DefaultTuning returns the tuning values without reading the environment.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		CacheTTL:               24 * time.Hour,
		CacheCapacity:          1000,
		CacheSimilarity:        0.85,
		CacheEvictionHighWater: 0.8,
		CacheEvictionFraction:  0.2,

		FetchSpacing:   3 * time.Second,
		FetchPerMinute: 5,
		FetchPerHour:   30,
		FetchPerDay:    80,
		FetchCacheTTL:  24 * time.Hour,
		FetchCooldown:  time.Hour,

		ExternalTimeout: 10 * time.Second,
		PromptTokens:    3000,
		HistoryMessages: 3,

		LearningInitialConfidence:    0.8,
		LearningInitialEffectiveness: 1.0,
		LearningMinConfidence:        0.7,
		LearningMinEffectiveness:     0.4,
		LearningSignatureWords:       5,
		LearningRecentTopics:         5,
		TrustRaise:                   0.1,
		TrustLower:                   0.05,
		TrustRaiseAbove:              0.7,
		TrustLowerBelow:              0.3,
	}
}
