package synthesis

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/guata/pkg/log"
)

// TokenCounter returns the token length of a string.
type TokenCounter func(string) int

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
	tkErr  error
)

// NewTokenCounter returns a cl100k_base counter, or the rune estimate when
// the encoding cannot be loaded.
func NewTokenCounter(ctx context.Context) TokenCounter {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	if tkErr != nil {
		log.FromCtx(ctx).Warn().Err(tkErr).Msg("tiktoken unavailable, estimating prompt tokens")
		return EstimateTokens
	}
	return func(s string) int {
		if s == "" {
			return 0
		}
		return len(tk.Encode(s, nil, nil))
	}
}

// EstimateTokens assumes four bytes per token.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}
