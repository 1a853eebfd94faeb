package resilience

import (
	"context"
	"sync"
	"time"
)

// BoundaryConfig ErrorBoundary 설정
type BoundaryConfig struct {
	Threshold int
	Window    time.Duration
	Now       func() time.Time
}

// ErrorBoundary counts recent failures per key. Each failure expires on its
// own once Window has passed since it was recorded.
type ErrorBoundary struct {
	mu       sync.Mutex
	cfg      BoundaryConfig
	failures map[string][]time.Time
}

// NewErrorBoundary 기본값: threshold 3, window 60초
func NewErrorBoundary(cfg BoundaryConfig) *ErrorBoundary {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 3
	}
	if cfg.Window <= 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ErrorBoundary{
		cfg:      cfg,
		failures: make(map[string][]time.Time),
	}
}

// prune drops expired failures. Caller holds mu.
func (b *ErrorBoundary) prune(key string) int {
	now := b.cfg.Now()
	live := b.failures[key][:0]
	for _, at := range b.failures[key] {
		if now.Sub(at) < b.cfg.Window {
			live = append(live, at)
		}
	}
	if len(live) == 0 {
		delete(b.failures, key)
		return 0
	}
	b.failures[key] = live
	return len(live)
}

// Count 현재 유효한 실패 횟수
func (b *ErrorBoundary) Count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prune(key)
}

// Tripped reports whether key has reached the failure threshold.
func (b *ErrorBoundary) Tripped(key string) bool {
	return b.Count(key) >= b.cfg.Threshold
}

func (b *ErrorBoundary) fail(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = append(b.failures[key], b.cfg.Now())
	return b.prune(key)
}

func (b *ErrorBoundary) succeed(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, key)
}

// Wrap runs op under the boundary for key. Once the threshold is reached the
// fallback answers instead of op until enough failures expire. A nil fallback
// disables short-circuiting and errors pass through unchanged.
func Wrap[T any](ctx context.Context, b *ErrorBoundary, key string, op func(context.Context) (T, error), fallback func(ctx context.Context, cause error) (T, error)) (T, error) {
	if fallback != nil && b.Tripped(key) {
		return fallback(ctx, ErrBoundaryTripped)
	}

	result, err := op(ctx)
	if err == nil {
		b.succeed(key)
		return result, nil
	}

	if count := b.fail(key); count >= b.cfg.Threshold && fallback != nil {
		return fallback(ctx, err)
	}
	var zero T
	return zero, err
}
