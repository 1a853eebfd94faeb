package resilience

import (
	"context"
	"errors"
	"time"
)

// Timeout races op against d. op receives a context that is cancelled when the
// timer wins; operations that ignore their context keep running in the
// background and their result is dropped.
func Timeout[T any](ctx context.Context, op func(context.Context) (T, error), d time.Duration) (T, error) {
	if d <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
