package bank

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry budget for transient bank failures. Vars so tests can shrink the
// delay.
var (
	maxRetries        uint64 = 3
	initialRetryDelay        = 5 * time.Second
)

// withRetry runs op, retrying transient failures (maintenance responses and
// network errors) with exponential backoff. Permanent failures surface
// immediately.
func withRetry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryDelay
	bo.RandomizationFactor = 0

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

func retryable(err error) bool {
	if errors.Is(err, ErrMaintenance) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
