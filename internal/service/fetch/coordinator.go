// Package fetch gates every call to a metered provider behind a shared
// budget and a day-long result cache.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/metrics"
	"github.com/sandevgo/guata/pkg/log"
)

// retention bounds how long request timestamps are kept.
const retention = 24 * time.Hour

type CallFunc func(ctx context.Context) (json.RawMessage, error)

type Result struct {
	Payload   json.RawMessage
	FromCache bool
	FetchedAt time.Time
}

type cacheEntry struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

type Coordinator struct {
	mu        sync.Mutex
	log       []time.Time
	cache     map[string]cacheEntry
	cooldowns map[string]time.Time

	admitted  int64
	denied    int64
	fromCache int64

	group     singleflight.Group
	store     core.KVStore
	namespace string
	cfg       config.TuningConfig
	now       func() time.Time
}

// New creates a coordinator whose state is persisted under the given
// namespace. A nil store keeps the state in memory only.
func New(cfg config.TuningConfig, store core.KVStore, namespace string, opts ...Option) *Coordinator {
	c := &Coordinator{
		cache:     make(map[string]cacheEntry),
		cooldowns: make(map[string]time.Time),
		store:     store,
		namespace: namespace,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) logKey() string   { return "fetch:" + c.namespace + ":request_log" }
func (c *Coordinator) cacheKey() string { return "fetch:" + c.namespace + ":cache" }

// TryFetch returns the cached payload for key when it is still fresh.
// Otherwise it runs the rate gates and, once admitted, records the call
// before invoking fn. Denials are *core.RateLimitError values.
//
// Callers asking for the same key share one call. The shared call is
// detached from the caller that started it and bounded by the external
// timeout instead, so one abandoned request never fails the others.
func (c *Coordinator) TryFetch(ctx context.Context, key string, fn CallFunc) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		if c.cfg.ExternalTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, c.cfg.ExternalTimeout)
			defer cancel()
		}
		return c.tryFetch(callCtx, key, fn)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}

func (c *Coordinator) tryFetch(ctx context.Context, key string, fn CallFunc) (Result, error) {
	logger := log.FromCtx(ctx).With().Str("key", key).Logger()

	if res, ok := c.cached(key); ok {
		metrics.FetchDecisions.WithLabelValues("cached", "").Inc()
		logger.Debug().Msg("fetch served from cache")
		return res, nil
	}

	if err := c.admit(ctx, key); err != nil {
		var rl *core.RateLimitError
		if errors.As(err, &rl) {
			metrics.FetchDecisions.WithLabelValues("denied", rl.Gate).Inc()
			logger.Info().Str("gate", rl.Gate).Str("reason", rl.Reason).Msg("fetch denied")
		}
		return Result{}, err
	}
	metrics.FetchDecisions.WithLabelValues("admitted", "").Inc()

	payload, err := fn(ctx)
	if err != nil {
		if errors.Is(err, core.ErrQuotaExhausted) {
			return Result{}, c.coolDown(ctx, key)
		}
		logger.Warn().Err(err).Msg("fetch failed")
		return Result{}, fmt.Errorf("%w: %w", core.ErrExternalProvider, err)
	}

	return c.remember(ctx, key, payload), nil
}

func (c *Coordinator) cached(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[key]
	if !ok {
		return Result{}, false
	}
	fetched := time.UnixMilli(e.Timestamp)
	if c.now().Sub(fetched) > c.cfg.FetchCacheTTL {
		return Result{}, false
	}
	c.fromCache++
	return Result{Payload: e.Payload, FromCache: true, FetchedAt: fetched}, true
}

// admit is the check-and-log critical section. The timestamp is appended
// and persisted before the lock is released, so concurrent callers always
// see every admitted call.
func (c *Coordinator) admit(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneLog(now)

	if err := c.checkGates(now, key); err != nil {
		c.denied++
		return err
	}

	c.log = append(c.log, now)
	c.admitted++
	c.persistLog(ctx)
	return nil
}

func (c *Coordinator) checkGates(now time.Time, key string) *core.RateLimitError {
	if until, ok := c.cooldowns[key]; ok {
		if now.Before(until) {
			return &core.RateLimitError{
				Gate:       core.GateQuota,
				Reason:     "provider quota exhausted, waiting for cooldown",
				RetryAfter: until.Sub(now),
			}
		}
		delete(c.cooldowns, key)
	}

	if n := len(c.log); n > 0 {
		if since := now.Sub(c.log[n-1]); since < c.cfg.FetchSpacing {
			return &core.RateLimitError{
				Gate:       core.GateSpacing,
				Reason:     fmt.Sprintf("calls must be at least %s apart", c.cfg.FetchSpacing),
				RetryAfter: c.cfg.FetchSpacing - since,
			}
		}
	}

	windows := []struct {
		gate   string
		window time.Duration
		limit  int
		reason string
	}{
		{core.GatePerMinute, time.Minute, c.cfg.FetchPerMinute, "per-minute limit of %d calls reached"},
		{core.GatePerHour, time.Hour, c.cfg.FetchPerHour, "per-hour limit of %d calls reached"},
		{core.GatePerDay, 24 * time.Hour, c.cfg.FetchPerDay, "daily limit of %d calls reached"},
	}
	for _, w := range windows {
		inWindow, oldest := c.countSince(now.Add(-w.window))
		if inWindow >= w.limit {
			return &core.RateLimitError{
				Gate:       w.gate,
				Reason:     fmt.Sprintf(w.reason, w.limit),
				RetryAfter: oldest.Add(w.window).Sub(now),
			}
		}
	}
	return nil
}

// countSince counts logged calls after from and returns the oldest of them.
func (c *Coordinator) countSince(from time.Time) (int, time.Time) {
	var oldest time.Time
	n := 0
	for _, ts := range c.log {
		if ts.After(from) {
			if n == 0 {
				oldest = ts
			}
			n++
		}
	}
	return n, oldest
}

func (c *Coordinator) coolDown(ctx context.Context, key string) error {
	c.mu.Lock()
	c.cooldowns[key] = c.now().Add(c.cfg.FetchCooldown)
	c.mu.Unlock()

	log.FromCtx(ctx).Warn().
		Str("key", key).
		Dur("cooldown", c.cfg.FetchCooldown).
		Msg("provider quota exhausted")

	return &core.RateLimitError{
		Gate:       core.GateQuota,
		Reason:     "provider reported its quota is exhausted",
		RetryAfter: c.cfg.FetchCooldown,
	}
}

func (c *Coordinator) remember(ctx context.Context, key string, payload json.RawMessage) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cache[key] = cacheEntry{Payload: payload, Timestamp: now.UnixMilli()}
	c.persistCache(ctx)

	return Result{Payload: payload, FetchedAt: time.UnixMilli(now.UnixMilli())}
}

func (c *Coordinator) pruneLog(now time.Time) {
	cutoff := now.Add(-retention)
	kept := c.log[:0]
	for _, ts := range c.log {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	c.log = kept
}

// Usage reports the current window counts and decision totals.
func (c *Coordinator) Usage() core.FetchUsage {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	minute, _ := c.countSince(now.Add(-time.Minute))
	hour, _ := c.countSince(now.Add(-time.Hour))
	day, _ := c.countSince(now.Add(-24 * time.Hour))

	return core.FetchUsage{
		LastMinute:      minute,
		LastHour:        hour,
		LastDay:         day,
		DailyLimit:      c.cfg.FetchPerDay,
		RemainingToday:  max(0, c.cfg.FetchPerDay-day),
		CachedKeys:      len(c.cache),
		Admitted:        c.admitted,
		Denied:          c.denied,
		ServedFromCache: c.fromCache,
	}
}
