// Package retry provides bounded retry loops and backoff schedules.
package retry

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy retries an action up to MaxRetries times after the first attempt,
// waiting Delay between failures.
type Policy struct {
	MaxRetries int
	Delay      time.Duration
	Sleep      SleepFunc
	// OnRetry is called before each wait with the 1-based retry number.
	OnRetry func(retry int, err error)
}

// Do invokes action immediately and retries it on error until it succeeds or
// the budget is spent, in which case the last error is returned. The action
// is invoked at most MaxRetries+1 times.
func Do[T any](ctx context.Context, p Policy, action func(ctx context.Context) (T, error)) (T, error) {
	r := newRetryer(p, action)
	return r.run(ctx)
}

type retryer[T any] struct {
	policy Policy
	fn     func(ctx context.Context) (T, error)
}

func newRetryer[T any](p Policy, fn func(ctx context.Context) (T, error)) *retryer[T] {
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	return &retryer[T]{policy: p, fn: fn}
}

func (r *retryer[T]) call(ctx context.Context) (result T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic caught: %v, stack: %s", rec, debug.Stack())
		}
	}()
	return r.fn(ctx)
}

func (r *retryer[T]) run(ctx context.Context) (T, error) {
	result, err := r.call(ctx)
	for retry := 1; err != nil && retry <= r.policy.MaxRetries; retry++ {
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(retry, err)
		}
		if serr := r.policy.Sleep(ctx, r.policy.Delay); serr != nil {
			return result, fmt.Errorf("retry aborted: %w (last error: %v)", serr, err)
		}
		result, err = r.call(ctx)
	}
	return result, err
}
