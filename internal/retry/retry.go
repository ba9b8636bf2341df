// Package retry wraps a single unreliable remote call with bounded retries.
//
// It treats two conditions as retryable: the call returning an error, and the
// call succeeding with a result its fallback predicate flags as a degraded
// placeholder. A degraded result on the final attempt is accepted and
// returned, never discarded; the caller surfaces the degradation to the user.
package retry

import (
	"context"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 2 * time.Second
)

// Options tunes one Do invocation. The zero value uses the defaults above
// with no fallback detection.
type Options[T any] struct {
	// MaxAttempts bounds the total number of calls, including the first.
	MaxAttempts int
	// BaseDelay is the wait before attempt 2; each later wait doubles.
	BaseDelay time.Duration
	// IsFallback flags a successful result as a degraded placeholder that
	// should be retried on non-final attempts.
	IsFallback func(T) bool
	// OnAttempt fires before every attempt after the first, with the
	// upcoming attempt number (2-based) and the attempt bound.
	OnAttempt func(attempt, max int)
}

func (o Options[T]) withDefaults() Options[T] {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	return o
}

// Do runs call until it yields an acceptable result or attempts are
// exhausted. Waits between attempts follow base, 2x, 4x, 8x. A
// genclient.PermanentError is returned immediately without further attempts,
// and context cancellation stops the loop between attempts.
func Do[T any](ctx context.Context, call func(ctx context.Context) (T, error), opts Options[T]) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error
	for i := 0; i < opts.MaxAttempts; i++ {
		if i > 0 {
			if opts.OnAttempt != nil {
				opts.OnAttempt(i+1, opts.MaxAttempts)
			}
			delay := opts.BaseDelay * time.Duration(1<<(i-1))
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		out, err := call(ctx)
		if err != nil {
			if genclient.IsPermanent(err) {
				return zero, err
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			default:
			}
			continue
		}
		if opts.IsFallback != nil && opts.IsFallback(out) && i < opts.MaxAttempts-1 {
			// Degraded but well-formed; worth another attempt.
			continue
		}
		return out, nil
	}
	return zero, lastErr
}
