package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct {
	code   string
	status int
}

func (e *codedError) Error() string   { return e.code }
func (e *codedError) Code() string    { return e.code }
func (e *codedError) StatusCode() int { return e.status }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBackoffBounds(t *testing.T) {
	cfg := DefaultRetryConfig()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for attempt, want := range expected {
		assert.Equal(t, want, cfg.Backoff(attempt), "attempt %d", attempt)
	}
	for attempt := 0; attempt < 64; attempt++ {
		assert.LessOrEqual(t, cfg.Backoff(attempt), 10*time.Second)
	}

	cfg.Exponential = false
	assert.Equal(t, time.Second, cfg.Backoff(5))
}

func TestRetryStopsAfterMaxRetries(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond

	calls := 0
	_, err := Retry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, &codedError{code: CodeNetwork}
	}, cfg)

	require.Error(t, err)
	assert.Equal(t, cfg.MaxRetries+1, calls)
}

func TestRetryDoesNotRetryFatalErrors(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond

	calls := 0
	_, err := Retry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, &codedError{code: "REQUEST_DENIED", status: 400}
	}, cfg)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryEventuallySucceeds(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond

	calls := 0
	v, err := Retry(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &codedError{code: "HTTP", status: 503}
		}
		return "ok", nil
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestRetryHonoursContext(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Hour
	cfg.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Retry(ctx, func(context.Context) (int, error) {
		calls++
		return 0, ErrTimeout
	}, cfg)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDefaultShouldRetry(t *testing.T) {
	assert.True(t, DefaultShouldRetry(&codedError{code: CodeQuotaExceeded}))
	assert.True(t, DefaultShouldRetry(&codedError{code: CodeStoreConnection}))
	assert.True(t, DefaultShouldRetry(&codedError{code: "X", status: 502}))
	assert.True(t, DefaultShouldRetry(ErrTimeout))
	assert.False(t, DefaultShouldRetry(&codedError{code: "X", status: 404}))
	assert.False(t, DefaultShouldRetry(errors.New("boom")))
	assert.False(t, DefaultShouldRetry(nil))
}

func TestTimeout(t *testing.T) {
	v, err := Timeout(context.Background(), func(context.Context) (int, error) {
		return 7, nil
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	cancelled := make(chan struct{})
	_, err = Timeout(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	}, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("operation context was not cancelled")
	}
}

func TestFallback(t *testing.T) {
	failing := func(context.Context) (int, error) { return 0, errors.New("down") }

	var observed error
	v, err := Fallback(context.Background(), failing, FallbackConfig[int]{
		FallbackFn: func(context.Context, error) (int, error) { return 42, nil },
		OnFallback: func(cause error) { observed = cause },
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.EqualError(t, observed, "down")

	def := 9
	v, err = Fallback(context.Background(), failing, FallbackConfig[int]{DefaultValue: &def})
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	_, err = Fallback(context.Background(), failing, FallbackConfig[int]{})
	assert.EqualError(t, err, "down")
}

func TestCircuitBreakerTransitions(t *testing.T) {
	clock := newFakeClock()
	cb := NewCircuitBreaker(BreakerConfig{Threshold: 3, ResetTimeout: time.Minute, Now: clock.Now})
	ctx := context.Background()
	const key = "places.getPlaces"

	calls := 0
	failing := func(context.Context) (int, error) {
		calls++
		return 0, errors.New("upstream down")
	}

	for i := 0; i < 3; i++ {
		_, err := Execute(ctx, cb, key, failing)
		require.Error(t, err)
	}
	assert.Equal(t, StateOpen, cb.State(key))
	assert.Equal(t, 3, calls)

	// 열린 동안에는 호출하지 않고 바로 실패
	_, err := Execute(ctx, cb, key, failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, calls)

	clock.Advance(59 * time.Second)
	_, err = Execute(ctx, cb, key, failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	clock.Advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State(key))

	// half-open 상태에서 실패하면 즉시 다시 open
	_, err = Execute(ctx, cb, key, failing)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, StateOpen, cb.State(key))

	clock.Advance(time.Minute)
	v, err := Execute(ctx, cb, key, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, StateClosed, cb.State(key))
	assert.Equal(t, 0, cb.Failures(key))
}

func TestCircuitBreakerKeysAreIndependent(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{Threshold: 1})
	ctx := context.Background()

	_, _ = Execute(ctx, cb, "a", func(context.Context) (int, error) { return 0, errors.New("x") })
	assert.Equal(t, StateOpen, cb.State("a"))
	assert.Equal(t, StateClosed, cb.State("b"))
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{Threshold: 2})
	ctx := context.Background()
	fail := func(context.Context) (int, error) { return 0, errors.New("x") }
	ok := func(context.Context) (int, error) { return 0, nil }

	_, _ = Execute(ctx, cb, "k", fail)
	_, _ = Execute(ctx, cb, "k", ok)
	_, _ = Execute(ctx, cb, "k", fail)
	assert.Equal(t, StateClosed, cb.State("k"))
}

func TestErrorBoundary(t *testing.T) {
	clock := newFakeClock()
	b := NewErrorBoundary(BoundaryConfig{Threshold: 3, Window: time.Minute, Now: clock.Now})
	ctx := context.Background()
	const key = "places"

	calls := 0
	failing := func(context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	}
	fallback := func(_ context.Context, cause error) (string, error) { return "fallback", nil }

	_, err := Wrap(ctx, b, key, failing, fallback)
	require.Error(t, err)
	clock.Advance(10 * time.Second)
	_, err = Wrap(ctx, b, key, failing, fallback)
	require.Error(t, err)

	// 세 번째 실패에서 임계치 도달
	v, err := Wrap(ctx, b, key, failing, fallback)
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 3, calls)

	v, err = Wrap(ctx, b, key, failing, fallback)
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 3, calls, "tripped boundary must not invoke op")

	// 첫 번째 실패가 만료되면 다시 op 호출
	clock.Advance(51 * time.Second)
	assert.Equal(t, 2, b.Count(key))
	v, err = Wrap(ctx, b, key, func(context.Context) (string, error) { return "live", nil }, fallback)
	require.NoError(t, err)
	assert.Equal(t, "live", v)
	assert.Equal(t, 0, b.Count(key))
}
