package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

type answer struct {
	Text     string
	Fallback bool
}

func fastOpts() Options[answer] {
	return Options[answer]{MaxAttempts: 5, BaseDelay: time.Millisecond}
}

func TestFirstAttemptSuccess(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		return answer{Text: "ok"}, nil
	}, fastOpts())
	tester.NoErr(t, err)
	tester.Eq(t, out.Text, "ok")
	tester.Eq(t, calls, 1)
}

func TestErrorsRetryUntilSuccess(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		if calls < 3 {
			return answer{}, errors.New("transient")
		}
		return answer{Text: "ok"}, nil
	}, fastOpts())
	tester.NoErr(t, err)
	tester.Eq(t, out.Text, "ok")
	tester.Eq(t, calls, 3)
}

func TestExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	opts := fastOpts()
	var announced []int
	opts.OnAttempt = func(attempt, max int) {
		tester.Eq(t, max, 5)
		announced = append(announced, attempt)
	}
	_, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		return answer{}, fmt.Errorf("boom %d", calls)
	}, opts)
	tester.Err(t, err)
	tester.Eq(t, err.Error(), "boom 5", "last error wins")
	tester.Eq(t, calls, 5)
	tester.Eq(t, announced, []int{2, 3, 4, 5})
}

func TestFallbackRetriedThenCleanAccepted(t *testing.T) {
	calls := 0
	opts := fastOpts()
	opts.IsFallback = func(a answer) bool { return a.Fallback }
	out, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		if calls <= 2 {
			return answer{Text: "placeholder", Fallback: true}, nil
		}
		return answer{Text: "real"}, nil
	}, opts)
	tester.NoErr(t, err)
	tester.Eq(t, calls, 3, "two fallback answers retried, clean answer accepted")
	tester.Eq(t, out.Text, "real")
	tester.False(t, out.Fallback)
}

func TestFinalAttemptFallbackAccepted(t *testing.T) {
	calls := 0
	opts := Options[answer]{MaxAttempts: 3, BaseDelay: time.Millisecond}
	opts.IsFallback = func(a answer) bool { return a.Fallback }
	out, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		return answer{Text: "placeholder", Fallback: true}, nil
	}, opts)
	tester.NoErr(t, err, "a degraded final result is a success, not an error")
	tester.Eq(t, calls, 3)
	tester.True(t, out.Fallback, "degradation stays visible to the caller")
}

func TestPermanentErrorShortCircuits(t *testing.T) {
	calls := 0
	sentinel := errors.New("schema violation")
	_, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		return answer{}, genclient.NewPermanentError(sentinel)
	}, fastOpts())
	tester.Err(t, err)
	tester.True(t, errors.Is(err, sentinel))
	tester.Eq(t, calls, 1, "permanent errors are never retried")
}

func TestBackoffDoubles(t *testing.T) {
	calls := 0
	start := time.Now()
	opts := Options[answer]{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond}
	_, err := Do(context.Background(), func(ctx context.Context) (answer, error) {
		calls++
		return answer{}, errors.New("transient")
	}, opts)
	tester.Err(t, err)
	tester.Eq(t, calls, 4)
	// Waits of base, 2x, 4x before attempts 2..4: 70ms total at minimum.
	tester.True(t, time.Since(start) >= 70*time.Millisecond, "waits follow base, 2x, 4x")
}

func TestContextCancelStopsBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, func(ctx context.Context) (answer, error) {
		calls++
		cancel()
		return answer{}, errors.New("transient")
	}, Options[answer]{MaxAttempts: 5, BaseDelay: time.Minute})
	tester.Err(t, err)
	tester.True(t, errors.Is(err, context.Canceled))
	tester.Eq(t, calls, 1, "no further attempts after cancellation")
}
