// Package retry repeats an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sandevgo/guata/pkg/log"
)

type Operation = func(ctx context.Context) error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
	// RetryIf reports whether err is worth another attempt. Nil retries
	// every error.
	RetryIf func(err error) bool
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type Retrier struct {
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error
	random func() float64
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
		sleep:  sleep,
		random: rand.Float64,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op until it succeeds, RetryIf rejects the error, MaxRetries is
// spent or ctx is done. The last error is returned as is.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	delay := r.config.InitialDelay

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if attempt > r.config.MaxRetries {
			return err
		}
		if r.config.RetryIf != nil && !r.config.RetryIf(err) {
			return err
		}

		wait := min(delay, r.config.MaxDelay) + time.Duration(r.random()*float64(r.config.Jitter))
		log.FromCtx(ctx).Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying")

		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
		delay = min(time.Duration(float64(delay)*r.config.BackoffFactor), r.config.MaxDelay)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
