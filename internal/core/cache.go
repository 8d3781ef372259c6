package core

import "time"

type CacheEntry struct {
	ID                 string    `json:"id"`
	Query              string    `json:"query"`
	NormalizedQuery    string    `json:"normalized_query"`
	Response           string    `json:"response"`
	CreatedAt          time.Time `json:"created_at"`
	UseCount           int       `json:"use_count"`
	Sources            []string  `json:"sources"`
	Confidence         int       `json:"confidence"`
	ContextFingerprint string    `json:"context_fingerprint"`
}

type CacheStats struct {
	TotalEntries  int       `json:"total_entries"`
	Capacity      int       `json:"capacity"`
	Hits          int64     `json:"hits"`
	Misses        int64     `json:"misses"`
	HitRate       float64   `json:"hit_rate"`
	Evictions     int64     `json:"evictions"`
	APICallsSaved int64     `json:"api_calls_saved"`
	AverageUses   float64   `json:"average_uses"`
	ApproxBytes   int       `json:"approx_bytes"`
	OldestEntry   time.Time `json:"oldest_entry,omitempty"`
	NewestEntry   time.Time `json:"newest_entry,omitempty"`
}
