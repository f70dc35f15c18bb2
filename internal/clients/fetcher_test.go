package clients

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() (*Fetcher, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	f := NewFetcher()
	f.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return f, sleeps
}

func TestFetcher_SucceedsAfterTwoThrottles(t *testing.T) {
	f, sleeps := newTestFetcher()

	attempts := 0
	result, err := Fetch(context.Background(), f, func() (string, error) {
		attempts++
		if attempts <= 2 {
			return "", fmt.Errorf("hot listing: %w", ErrRateLimited)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{RETRY_DELAY, RETRY_DELAY}, *sleeps)
}

func TestFetcher_GivesUpAfterThreeThrottles(t *testing.T) {
	f, sleeps := newTestFetcher()

	attempts := 0
	err := f.Do(context.Background(), func() error {
		attempts++
		return ErrRateLimited
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, attempts)
	assert.Len(t, *sleeps, 2, "only two waits fit between three attempts")
}

func TestFetcher_NonRetryableFailsImmediately(t *testing.T) {
	f, sleeps := newTestFetcher()

	boom := errors.New("document not found")
	attempts := 0
	err := f.Do(context.Background(), func() error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestFetcher_ContextCancelledDuringWait(t *testing.T) {
	f := NewFetcher()
	f.Delay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Do(ctx, func() error { return ErrRateLimited })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_SuccessNeedsNoRetry(t *testing.T) {
	f, sleeps := newTestFetcher()

	result, err := Fetch(context.Background(), f, func() (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Empty(t, *sleeps)
}
