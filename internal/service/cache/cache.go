// Package cache is the in-memory similarity cache for computed answers.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/metrics"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/text"
)

type entryKey struct {
	query       string
	fingerprint string
}

// item keeps the word set of an entry's normalized query so similarity
// scans do not rebuild it.
type item struct {
	core.CacheEntry
	words map[string]struct{}
}

type Option func(*Cache)

// WithClock replaces time.Now for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

type Cache struct {
	mu      sync.Mutex
	entries map[entryKey]*item
	order   []entryKey // insertion order, scanned by fuzzy lookup

	ttl       time.Duration
	capacity  int
	threshold float64
	highWater float64
	fraction  float64
	now       func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

func New(cfg config.TuningConfig, opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[entryKey]*item),
		ttl:       cfg.CacheTTL,
		capacity:  cfg.CacheCapacity,
		threshold: cfg.CacheSimilarity,
		highWater: cfg.CacheEvictionHighWater,
		fraction:  cfg.CacheEvictionFraction,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContextFingerprint derives the cache context for a chat session.
func ContextFingerprint(sessionID string) string {
	return text.Fingerprint("session:" + sessionID)
}

// Lookup returns a copy of the entry for query, trying the exact
// (normalized query, fingerprint) key first and then every live entry by
// word-set similarity.
func (c *Cache) Lookup(ctx context.Context, query, fingerprint string) (core.CacheEntry, bool) {
	normalized := text.Normalize(query)
	words := text.WordSet(normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[entryKey{normalized, fingerprint}]; ok && !c.expired(e, now) {
		return c.hit(ctx, e, 1), true
	}

	for _, k := range c.order {
		e := c.entries[k]
		if c.expired(e, now) {
			continue
		}
		if sim := text.Jaccard(words, e.words); sim >= c.threshold {
			return c.hit(ctx, e, sim), true
		}
	}

	c.misses++
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	return core.CacheEntry{}, false
}

func (c *Cache) hit(ctx context.Context, e *item, similarity float64) core.CacheEntry {
	e.UseCount++
	c.hits++
	metrics.CacheLookups.WithLabelValues("hit").Inc()

	log.FromCtx(ctx).Debug().
		Str("entry", e.ID).
		Float64("similarity", similarity).
		Int("uses", e.UseCount).
		Msg("cache hit")

	return copyEntry(e)
}

// Store records a computed answer. Storing the same key again replaces the
// answer but keeps the entry identity and use count.
func (c *Cache) Store(ctx context.Context, query, response string, sources []string, confidence int, fingerprint string) core.CacheEntry {
	normalized := text.Normalize(query)
	k := entryKey{normalized, fingerprint}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[k]; ok {
		e.Query = query
		e.Response = response
		e.Sources = append([]string(nil), sources...)
		e.Confidence = confidence
		e.CreatedAt = c.now()
		return copyEntry(e)
	}

	e := &item{
		CacheEntry: core.CacheEntry{
			ID:                 uuid.New().String(),
			Query:              query,
			NormalizedQuery:    normalized,
			Response:           response,
			CreatedAt:          c.now(),
			Sources:            append([]string(nil), sources...),
			Confidence:         confidence,
			ContextFingerprint: fingerprint,
		},
		words: text.WordSet(normalized),
	}
	c.entries[k] = e
	c.order = append(c.order, k)

	if len(c.entries) > c.capacity {
		c.evict(ctx)
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))

	return copyEntry(e)
}

// evict purges expired entries and, while the table is still above the
// high-water mark, drops the least used fraction. Ties go oldest first.
func (c *Cache) evict(ctx context.Context) {
	now := c.now()
	removed := 0

	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			removed++
		}
	}

	if float64(len(c.entries)) > c.highWater*float64(c.capacity) {
		live := make([]*item, 0, len(c.entries))
		for _, k := range c.order {
			if e, ok := c.entries[k]; ok {
				live = append(live, e)
			}
		}
		sort.SliceStable(live, func(i, j int) bool {
			return live[i].UseCount < live[j].UseCount
		})

		n := int(float64(len(live)) * c.fraction)
		if n < 1 {
			n = 1
		}
		for _, e := range live[:n] {
			delete(c.entries, entryKey{e.NormalizedQuery, e.ContextFingerprint})
			removed++
		}
	}

	c.compactOrder()
	c.evictions += int64(removed)
	metrics.CacheEvictions.Add(float64(removed))

	log.FromCtx(ctx).Debug().
		Int("removed", removed).
		Int("size", len(c.entries)).
		Msg("cache eviction")
}

// Forget removes every entry whose query matches query exactly or by
// similarity, in any context. It returns the number of entries removed.
func (c *Cache) Forget(ctx context.Context, query string) int {
	normalized := text.Normalize(query)
	words := text.WordSet(normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if e.NormalizedQuery == normalized || text.Jaccard(words, e.words) >= c.threshold {
			delete(c.entries, k)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	c.compactOrder()
	metrics.CacheEntries.Set(float64(len(c.entries)))

	log.FromCtx(ctx).Debug().
		Int("removed", removed).
		Str("query", normalized).
		Msg("cache entries forgotten")

	return removed
}

func (c *Cache) compactOrder() {
	kept := c.order[:0]
	for _, k := range c.order {
		if _, ok := c.entries[k]; ok {
			kept = append(kept, k)
		}
	}
	c.order = kept
}

func (c *Cache) expired(e *item, now time.Time) bool {
	return now.Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry but keeps the hit and miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[entryKey]*item)
	c.order = nil
	metrics.CacheEntries.Set(0)
}

func (c *Cache) Stats() core.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := core.CacheStats{
		TotalEntries:  len(c.entries),
		Capacity:      c.capacity,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		APICallsSaved: c.hits,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}

	uses := 0
	for _, k := range c.order {
		e := c.entries[k]
		uses += e.UseCount
		s.ApproxBytes += len(e.Query) + len(e.NormalizedQuery) + len(e.Response) + len(e.ID) + len(e.ContextFingerprint)
		for _, src := range e.Sources {
			s.ApproxBytes += len(src)
		}
		if s.OldestEntry.IsZero() || e.CreatedAt.Before(s.OldestEntry) {
			s.OldestEntry = e.CreatedAt
		}
		if e.CreatedAt.After(s.NewestEntry) {
			s.NewestEntry = e.CreatedAt
		}
	}
	if len(c.entries) > 0 {
		s.AverageUses = float64(uses) / float64(len(c.entries))
	}
	return s
}

func copyEntry(e *item) core.CacheEntry {
	out := e.CacheEntry
	out.Sources = append([]string(nil), e.Sources...)
	return out
}
