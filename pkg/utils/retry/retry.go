package retry

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/utils/logging"
)

// Do runs fn up to attempts times, sleeping baseDelay after the first
// failure and doubling the delay after each subsequent one. It returns
// nil on the first success, the last error once attempts are exhausted,
// and ctx.Err() if the context ends while waiting.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := baseDelay
	for i := 0; i < attempts; i++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if i == attempts-1 {
			break
		}

		logging.From(ctx).Warn("retrying after failure",
			"attempt", i+1,
			"max_attempts", attempts,
			"delay", delay.String(),
			"error", lastErr.Error(),
		)

		select {
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "canceled while waiting to retry")
		case <-time.After(delay):
		}
		delay *= 2
	}

	return goerr.Wrap(lastErr, "all attempts failed", goerr.V("attempts", attempts))
}
