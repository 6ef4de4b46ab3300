// Package retry re-runs read-modify-write units that lose an optimistic
// concurrency race.
package retry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

const DefaultAttempts = 3

var revisionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "samaritan_revision_conflicts_total",
	Help: "Conditional writes that found a newer revision and were retried or abandoned.",
}, []string{"op"})

// OnConflict runs fn until it stops returning ports.ErrRevisionConflict, at
// most attempts times. Other errors return immediately.
func OnConflict(ctx context.Context, op string, attempts int, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "check context")
		}

		lastErr = fn(ctx)
		if !errors.Is(lastErr, ports.ErrRevisionConflict) {
			return lastErr
		}

		revisionConflicts.WithLabelValues(op).Inc()
		logging.Warn(
			ctx,
			"revision conflict",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
		)
	}

	return errs.Wrapf(lastErr, "%s: gave up after %d attempts", op, attempts)
}
