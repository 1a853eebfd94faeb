package resilience

import (
	"context"
	"time"

	"github.com/ggorockee/localdirectory/internal/logger"
	"go.uber.org/zap"
)

// RetryConfig 재시도 정책
type RetryConfig struct {
	Name        string
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Exponential bool
	ShouldRetry func(error) bool
	Logger      *zap.SugaredLogger
}

// DefaultRetryConfig 기본값: 3회, 1초 시작, 최대 10초, 지수 백오프
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Exponential: true,
		ShouldRetry: DefaultShouldRetry,
	}
}

// Backoff returns the wait before the retry following the given 0-based attempt.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if !c.Exponential {
		return c.BaseDelay
	}
	delay := c.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// Retry calls op up to MaxRetries+1 times. It stops early when ShouldRetry
// rejects the error or ctx is done, returning the last error seen.
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), cfg RetryConfig) (T, error) {
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = DefaultShouldRetry
	}
	log := cfg.Logger
	if log == nil {
		log = logger.GetLogger("resilience")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var (
		result T
		err    error
	)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt == maxRetries || !shouldRetry(err) {
			break
		}

		delay := cfg.Backoff(attempt)
		log.Warnf("[%s] attempt %d/%d failed, retrying in %s (%d left): %v",
			cfg.Name, attempt+1, maxRetries+1, delay, maxRetries-attempt, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	var zero T
	return zero, err
}
