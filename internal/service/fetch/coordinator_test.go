package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/storage/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func payload(v string) CallFunc {
	return func(context.Context) (json.RawMessage, error) {
		return json.Marshal(v)
	}
}

func gateOf(t *testing.T, err error) string {
	t.Helper()
	var rl *core.RateLimitError
	require.ErrorAs(t, err, &rl)
	return rl.Gate
}

func TestCoordinator_MinuteWindow(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	admitted := 0
	var lastErr error
	for i := 0; i < 6; i++ {
		_, err := c.TryFetch(ctx, fmt.Sprintf("key-%d", i), payload("ok"))
		if err == nil {
			admitted++
		} else {
			lastErr = err
		}
		clock.Advance(3 * time.Second)
	}

	assert.Equal(t, 5, admitted)
	require.Error(t, lastErr)
	assert.ErrorIs(t, lastErr, core.ErrRateLimitExceeded)
	assert.Equal(t, core.GatePerMinute, gateOf(t, lastErr))
	assert.Contains(t, lastErr.Error(), "per-minute")
}

func TestCoordinator_Gates(t *testing.T) {
	tests := []struct {
		name     string
		step     time.Duration
		calls    int
		wantGate string
	}{
		{
			name:     "spacing",
			step:     time.Second,
			calls:    2,
			wantGate: core.GateSpacing,
		},
		{
			name:     "per hour",
			step:     15 * time.Second,
			calls:    31,
			wantGate: core.GatePerHour,
		},
		{
			name:     "per day",
			step:     15 * time.Minute,
			calls:    81,
			wantGate: core.GatePerDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newClock()
			c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

			var err error
			for i := 0; i < tt.calls; i++ {
				_, err = c.TryFetch(ctx, fmt.Sprintf("key-%d", i), payload("ok"))
				if i < tt.calls-1 {
					require.NoError(t, err, "call %d", i+1)
				}
				clock.Advance(tt.step)
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantGate, gateOf(t, err))
		})
	}
}

func TestCoordinator_DailyCapReason(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "search", WithClock(clock.Now))

	for i := 0; i < 80; i++ {
		_, err := c.TryFetch(ctx, fmt.Sprintf("campo grande query %d", i), payload("ok"))
		require.NoError(t, err)
		clock.Advance(15 * time.Minute)
	}

	_, err := c.TryFetch(ctx, "campo grande query 80", payload("ok"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily limit of 80")

	usage := c.Usage()
	assert.Equal(t, 80, usage.LastDay)
	assert.Equal(t, 0, usage.RemainingToday)
	assert.Equal(t, int64(80), usage.Admitted)
	assert.Equal(t, int64(1), usage.Denied)
}

func TestCoordinator_CacheBypassesGates(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	calls := 0
	fn := func(context.Context) (json.RawMessage, error) {
		calls++
		return json.RawMessage(`{"hotel":"Deville"}`), nil
	}

	first, err := c.TryFetch(ctx, "lodging:airport", fn)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := c.TryFetch(ctx, "lodging:airport", fn)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.JSONEq(t, `{"hotel":"Deville"}`, string(second.Payload))
	assert.Equal(t, 1, calls)

	clock.Advance(25 * time.Hour)
	third, err := c.TryFetch(ctx, "lodging:airport", fn)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, 2, calls)
}

func TestCoordinator_QuotaExhausted(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	calls := 0
	quota := func(context.Context) (json.RawMessage, error) {
		calls++
		return nil, fmt.Errorf("http 429: %w", core.ErrQuotaExhausted)
	}

	_, err := c.TryFetch(ctx, "dining", quota)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQuotaExhausted)
	assert.ErrorIs(t, err, core.ErrRateLimitExceeded)

	clock.Advance(10 * time.Second)
	_, err = c.TryFetch(ctx, "dining", quota)
	require.Error(t, err)
	assert.Equal(t, core.GateQuota, gateOf(t, err))
	assert.Equal(t, 1, calls)

	_, err = c.TryFetch(ctx, "attractions", payload("ok"))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = c.TryFetch(ctx, "dining", payload("ok"))
	require.NoError(t, err)
}

func TestCoordinator_ProviderErrorStillCounts(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	_, err := c.TryFetch(ctx, "k", func(context.Context) (json.RawMessage, error) {
		return nil, errors.New("connection reset")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExternalProvider)
	assert.Contains(t, err.Error(), "connection reset")

	usage := c.Usage()
	assert.Equal(t, 1, usage.LastMinute)
	assert.Equal(t, 0, usage.CachedKeys)
}

func TestCoordinator_CancelledCallIsNotRefunded(t *testing.T) {
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	_, err := c.TryFetch(ctx, "k", func(context.Context) (json.RawMessage, error) {
		cancel()
		<-release
		return json.RawMessage(`"late"`), nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, c.Usage().LastMinute)

	close(release)
	assert.Eventually(t, func() bool {
		return c.Usage().CachedKeys == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCoordinator_DeadContextIsNotAdmitted(t *testing.T) {
	c := New(config.DefaultTuning(), nil, "test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.TryFetch(ctx, "k", func(context.Context) (json.RawMessage, error) {
		return nil, errors.New("must not be called")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Usage().Admitted)
}

func TestCoordinator_SharedCallOutlivesCancelledCaller(t *testing.T) {
	c := New(config.DefaultTuning(), nil, "test")

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	first := func(ctx context.Context) (json.RawMessage, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return json.RawMessage(`"shared"`), nil
	}
	second := func(context.Context) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(`"second"`), nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.TryFetch(leaderCtx, "k", first)
		leaderErr <- err
	}()
	<-started

	type outcome struct {
		res Result
		err error
	}
	follower := make(chan outcome, 1)
	go func() {
		res, err := c.TryFetch(context.Background(), "k", second)
		follower <- outcome{res, err}
	}()
	// Let the follower join the in-flight call.
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.JSONEq(t, `"shared"`, string(got.res.Payload))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCoordinator_PersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := memory.NewKVStore()

	first := New(config.DefaultTuning(), store, "search", WithClock(clock.Now))
	_, err := first.TryFetch(ctx, "a", payload("alpha"))
	require.NoError(t, err)
	clock.Advance(5 * time.Second)
	_, err = first.TryFetch(ctx, "b", payload("beta"))
	require.NoError(t, err)

	second := New(config.DefaultTuning(), store, "search", WithClock(clock.Now))
	require.NoError(t, second.Load(ctx))

	usage := second.Usage()
	assert.Equal(t, 2, usage.LastDay)
	assert.Equal(t, 2, usage.CachedKeys)

	res, err := second.TryFetch(ctx, "a", payload("other"))
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.JSONEq(t, `"alpha"`, string(res.Payload))

	_, err = second.TryFetch(ctx, "c", payload("gamma"))
	require.Error(t, err)
	assert.Equal(t, core.GateSpacing, gateOf(t, err))
}

func TestCoordinator_LoadPrunesOldState(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := memory.NewKVStore()

	first := New(config.DefaultTuning(), store, "search", WithClock(clock.Now))
	_, err := first.TryFetch(ctx, "a", payload("alpha"))
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)
	second := New(config.DefaultTuning(), store, "search", WithClock(clock.Now))
	require.NoError(t, second.Load(ctx))

	usage := second.Usage()
	assert.Equal(t, 0, usage.LastDay)
	assert.Equal(t, 0, usage.CachedKeys)
}

func TestCoordinator_LoadIgnoresCorruptState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, "fetch:search:request_log", []byte("not json")))

	c := New(config.DefaultTuning(), store, "search")
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 0, c.Usage().LastDay)
}

func TestCoordinator_ConcurrentAdmissionIsAtomic(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := New(config.DefaultTuning(), nil, "test", WithClock(clock.Now))

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
		denied   atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.TryFetch(ctx, fmt.Sprintf("key-%d", i), payload("ok"))
			if err == nil {
				admitted.Add(1)
			} else if errors.Is(err, core.ErrRateLimitExceeded) {
				denied.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(19), denied.Load())
}

func TestCoordinator_CollapsesConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	c := New(config.DefaultTuning(), nil, "test")

	var calls atomic.Int32
	fn := func(context.Context) (json.RawMessage, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return json.RawMessage(`"shared"`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.TryFetch(ctx, "same", fn)
			assert.NoError(t, err)
			assert.JSONEq(t, `"shared"`, string(res.Payload))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_Typed(t *testing.T) {
	ctx := context.Background()
	c := New(config.DefaultTuning(), nil, "test")

	results := []core.SearchResult{{Title: "Bioparque Pantanal", URL: "https://bioparquepantanal.ms.gov.br"}}
	got, res, err := Fetch(ctx, c, "attractions", func(context.Context) ([]core.SearchResult, error) {
		return results, nil
	})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, results, got)

	again, res, err := Fetch(ctx, c, "attractions", func(context.Context) ([]core.SearchResult, error) {
		return nil, errors.New("must not be called")
	})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, results, again)
}
