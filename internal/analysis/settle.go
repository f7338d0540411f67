package analysis

import (
	"context"
	"time"
)

// settleWithDefault runs op under its own timeout and always produces a
// value: op's result on success, fallback (plus the causing error) on failure
// or timeout. This is the reusable primitive behind the enrichment fan-out:
// a branch can be late or broken, never fatal.
//
// When the timeout elapses the branch's context is cancelled and its eventual
// result is discarded; the goroutine drains into a buffered channel so it
// never leaks.
func settleWithDefault[T any](ctx context.Context, timeout time.Duration, fallback T, op func(context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	ch := make(chan outcome, 1)

	go func() {
		value, err := op(opCtx)
		ch <- outcome{value: value, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return fallback, out.err
		}
		return out.value, nil
	case <-opCtx.Done():
		return fallback, opCtx.Err()
	}
}
