package connectors

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"at_deals/pkg/logx"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// retry calls fn up to attempts times with exponential pauses.
func retry(ctx context.Context, attempts int, fn func(context.Context) error) error {
	attempts = max(attempts, 1)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryBaseDelay
	b.MaxInterval = retryMaxDelay
	b.MaxElapsedTime = 0

	attempt := 0

	return backoff.RetryNotify(
		func() error {
			attempt++
			return fn(ctx)
		},
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx),
		func(err error, next time.Duration) {
			logger(ctx).Warn("connect attempt failed",
				slog.Int("attempt", attempt),
				slog.Duration("retry-in", next),
				logx.Error(err),
			)
		},
	)
}
