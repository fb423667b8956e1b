// Package wait provides cooperative polling helpers. A wait blocks the
// calling test flow, re-checking its predicate on a fixed interval until the
// predicate holds, the budget elapses, or the context is canceled.
package wait

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PollInterval is how long to sleep between predicate checks.
const PollInterval = 100 * time.Millisecond

// TimeoutError reports a condition that never became true within its budget.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Last      error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s was still not true after %s", e.Condition, e.Timeout)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.Last }

// Until polls fn until it returns true. fn errors do not abort the wait; the
// last one is attached to the TimeoutError so the caller can see why the
// condition never held. Ctx cancellation aborts immediately.
func Until(ctx context.Context, timeout time.Duration, condition string, fn func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	var last error

	for {
		ok, err := fn(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			last = err
		}

		if time.Now().After(deadline) {
			return &TimeoutError{Condition: condition, Timeout: timeout, Last: last}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s canceled: %w", condition, ctx.Err())
		case <-time.After(PollInterval):
		}
	}
}

// UntilTrue polls fn until it reports true.
func UntilTrue(ctx context.Context, timeout time.Duration, condition string, fn func(context.Context) (bool, error)) error {
	return Until(ctx, timeout, condition, fn)
}

// UntilNoError polls fn until it stops returning an error, then returns its
// last result.
func UntilNoError[T any](ctx context.Context, timeout time.Duration, condition string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := Until(ctx, timeout, condition, func(ctx context.Context) (bool, error) {
		v, err := fn(ctx)
		if err != nil {
			return false, err
		}
		result = v
		return true, nil
	})
	return result, err
}

// UntilEqual polls fn until its result equals want.
func UntilEqual[T comparable](ctx context.Context, timeout time.Duration, want T, fn func(context.Context) (T, error)) (T, error) {
	var last T
	err := Until(ctx, timeout, fmt.Sprintf("value == %v", want), func(ctx context.Context) (bool, error) {
		v, err := fn(ctx)
		if err != nil {
			return false, err
		}
		last = v
		return v == want, nil
	})
	return last, err
}

// UntilContains polls fn until its result contains want as a substring.
func UntilContains(ctx context.Context, timeout time.Duration, want string, fn func(context.Context) (string, error)) (string, error) {
	var last string
	err := Until(ctx, timeout, fmt.Sprintf("value contains %q", want), func(ctx context.Context) (bool, error) {
		v, err := fn(ctx)
		if err != nil {
			return false, err
		}
		last = v
		return strings.Contains(v, want), nil
	})
	return last, err
}
