// Package search implements the external web search backend on the Google
// Custom Search JSON API.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/inbucket/html2text"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/retry"
)

const (
	maxResponseSize = 512 * 1024
	maxResults      = 10
)

var errPermanent = errors.New("permanent search failure")

type Google struct {
	client  *http.Client
	retrier *retry.Retrier
	cfg     config.SearchConfig
}

func NewGoogle(cfg config.SearchConfig) *Google {
	return &Google{
		client: &http.Client{Timeout: 15 * time.Second},
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    1,
			BackoffFactor: 2,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Jitter:        50 * time.Millisecond,
			RetryIf:       retryable,
		}),
		cfg: cfg,
	}
}

// retryable reports whether err may be retried. Quota signals, client
// errors and cancellation are final.
func retryable(err error) bool {
	return !errors.Is(err, core.ErrQuotaExhausted) &&
		!errors.Is(err, errPermanent) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

type response struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search returns up to limit ranked results. A 429 answer is reported as
// core.ErrQuotaExhausted.
func (g *Google) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}

	params := url.Values{}
	params.Set("key", g.cfg.APIKey)
	params.Set("cx", g.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	params.Set("gl", "br")
	params.Set("safe", "active")

	var body response
	err := g.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"?"+params.Encode(), nil)
		if err != nil {
			return fmt.Errorf("%w: failed to create request: %v", errPermanent, err)
		}
		req.Header.Set("User-Agent", core.GuataUserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to query search api: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: search api answered %d", core.ErrQuotaExhausted, resp.StatusCode)
		case resp.StatusCode >= 500:
			return fmt.Errorf("search api answered %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return fmt.Errorf("%w: search api answered %d: %s", errPermanent, resp.StatusCode, apiMessage(data))
		}

		body = response{}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", errPermanent, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(body.Items))
	for _, it := range body.Items {
		results = append(results, core.SearchResult{
			Title:   strings.TrimSpace(it.Title),
			Snippet: snippet(ctx, it.HTMLSnippet, it.Snippet),
			URL:     it.Link,
		})
		if len(results) == limit {
			break
		}
	}

	log.FromCtx(ctx).Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("web search done")

	return results, nil
}

// snippet renders the HTML snippet as text, falling back to the plain one.
func snippet(ctx context.Context, html, plain string) string {
	if html == "" {
		return collapse(plain)
	}
	text, err := html2text.FromString(html, html2text.Options{OmitLinks: true})
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to convert html snippet")
		return collapse(plain)
	}
	// html2text marks <b> query terms with asterisks.
	return collapse(strings.ReplaceAll(text, "*", ""))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func apiMessage(data []byte) string {
	var body response
	if err := json.Unmarshal(data, &body); err == nil && body.Error != nil {
		return body.Error.Message
	}
	return truncate(string(data), 200)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
