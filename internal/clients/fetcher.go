package clients

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Fetcher retries an upstream call a bounded number of times with a fixed
// delay when the failure is classified as retryable. Anything else propagates
// immediately. Each call is retried independently; there is no circuit
// breaker across calls, so a sustained outage degrades throughput one unit of
// work at a time.
type Fetcher struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool

	sleep func(ctx context.Context, d time.Duration) error
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		MaxAttempts: MAX_RETRIES,
		Delay:       RETRY_DELAY,
		Retryable:   func(err error) bool { return errors.Is(err, ErrRateLimited) },
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget runs out. The last error is returned, never swallowed.
func (f *Fetcher) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= f.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !f.Retryable(err) {
			return err
		}
		if attempt == f.MaxAttempts {
			break
		}

		slog.Warn("[Fetcher] Retryable failure, waiting before next attempt",
			slog.Int("attempt", attempt),
			slog.Duration("delay", f.Delay),
			slog.String("error", err.Error()))

		if sleepErr := f.sleep(ctx, f.Delay); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

// Fetch runs a value-returning op under the fetcher's retry policy.
func Fetch[T any](ctx context.Context, f *Fetcher, op func() (T, error)) (T, error) {
	var result T
	err := f.Do(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}
