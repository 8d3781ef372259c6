package core

import "context"

// Assistant is the surface exposed to hosting transports.
type Assistant interface {
	ProcessMessage(ctx context.Context, text, sessionID, userID string) Response
	RegisterCorrection(ctx context.Context, req CorrectionRequest) (string, error)
	CacheStats() CacheStats
	LearningStats() LearningStats
	FetchUsage() FetchUsage
}

// Curator reviews learned overrides. A wrong correction stays in effect
// until it is forgotten here.
type Curator interface {
	Patterns() []LearningPattern
	Corrections() []CorrectionRecord
	MarkVerified(ctx context.Context, correctionID string) error
	ForgetPattern(ctx context.Context, key string) bool
}

type FetchUsage struct {
	LastMinute      int   `json:"last_minute"`
	LastHour        int   `json:"last_hour"`
	LastDay         int   `json:"last_day"`
	DailyLimit      int   `json:"daily_limit"`
	RemainingToday  int   `json:"remaining_today"`
	CachedKeys      int   `json:"cached_keys"`
	Admitted        int64 `json:"admitted"`
	Denied          int64 `json:"denied"`
	ServedFromCache int64 `json:"served_from_cache"`
}
