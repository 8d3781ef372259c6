package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sandevgo/guata/pkg/log"
)

// Load restores the request log and result cache from the store, dropping
// anything older than a day.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	var millis []int64
	if err := c.read(ctx, c.logKey(), &millis); err != nil {
		return err
	}
	var cached map[string]cacheEntry
	if err := c.read(ctx, c.cacheKey(), &cached); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.log = c.log[:0]
	for _, ms := range millis {
		c.log = append(c.log, time.UnixMilli(ms))
	}
	sort.Slice(c.log, func(i, j int) bool { return c.log[i].Before(c.log[j]) })
	c.pruneLog(now)

	c.cache = make(map[string]cacheEntry, len(cached))
	for k, e := range cached {
		if now.Sub(time.UnixMilli(e.Timestamp)) <= min(retention, c.cfg.FetchCacheTTL) {
			c.cache[k] = e
		}
	}

	log.FromCtx(ctx).Info().
		Str("namespace", c.namespace).
		Int("requests", len(c.log)).
		Int("cached", len(c.cache)).
		Msg("fetch state loaded")

	return nil
}

func (c *Coordinator) read(ctx context.Context, key string, dst any) error {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("discarding unreadable fetch state")
	}
	return nil
}

// persistLog and persistCache run with c.mu held. A failed write only
// costs durability, the in-memory state stays authoritative.
func (c *Coordinator) persistLog(ctx context.Context) {
	millis := make([]int64, len(c.log))
	for i, ts := range c.log {
		millis[i] = ts.UnixMilli()
	}
	c.write(ctx, c.logKey(), millis)
}

func (c *Coordinator) persistCache(ctx context.Context) {
	c.write(ctx, c.cacheKey(), c.cache)
}

func (c *Coordinator) write(ctx context.Context, key string, v any) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("key", key).Msg("failed to encode fetch state")
		return
	}
	if err := c.store.Set(context.WithoutCancel(ctx), key, data); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("key", key).Msg("failed to persist fetch state")
	}
}
