package resilience

import (
	"context"
)

// FallbackConfig 실패 시 대체 동작
type FallbackConfig[T any] struct {
	FallbackFn   func(ctx context.Context, cause error) (T, error)
	DefaultValue *T
	OnFallback   func(cause error)
}

// Fallback runs op and, on failure, substitutes FallbackFn's result, then
// DefaultValue. With neither configured the original error is returned.
func Fallback[T any](ctx context.Context, op func(context.Context) (T, error), cfg FallbackConfig[T]) (T, error) {
	result, err := op(ctx)
	if err == nil {
		return result, nil
	}

	if cfg.OnFallback != nil {
		cfg.OnFallback(err)
	}
	if cfg.FallbackFn != nil {
		return cfg.FallbackFn(ctx, err)
	}
	if cfg.DefaultValue != nil {
		return *cfg.DefaultValue, nil
	}

	var zero T
	return zero, err
}
