package fetch

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fetch runs fn through the coordinator and decodes the payload, whether it
// came from the provider or from the cache.
func Fetch[T any](ctx context.Context, c *Coordinator, key string, fn func(ctx context.Context) (T, error)) (T, Result, error) {
	var out T

	res, err := c.TryFetch(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, res, err
	}

	if err := json.Unmarshal(res.Payload, &out); err != nil {
		return out, res, fmt.Errorf("failed to decode %s payload: %w", key, err)
	}
	return out, res, nil
}
