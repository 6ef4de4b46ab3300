package crash

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

// Statistics aggregates crash counts and casualties per borough, served from
// cache until a new crash is created or the entry expires.
func (s *Service) Statistics(ctx context.Context) (ports.CrashStatistics, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return ports.CrashStatistics{}, err
	}

	logCtx := logging.WithComponent(ctx, "usecase.crash")
	if s.cache != nil {
		raw, found, err := s.cache.Get(ctx, statsCacheKey)
		if err != nil {
			logging.Warn(logCtx, "stats cache read failed", slog.Any("err", errs.Loggable(err)))
		} else if found {
			var cached ports.CrashStatistics
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				statsCacheLookups.WithLabelValues("hit").Inc()
				return cached, nil
			}
			logging.Warn(logCtx, "stats cache entry unreadable, recomputing")
		}
		statsCacheLookups.WithLabelValues("miss").Inc()
	}

	stats, err := s.crashes.Statistics(ctx)
	if err != nil {
		return ports.CrashStatistics{}, err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(stats)
		if err != nil {
			return ports.CrashStatistics{}, errs.Wrap(err, "encode crash statistics")
		}
		s.setCacheBestEffort(logCtx, statsCacheKey, string(encoded))
	}
	return stats, nil
}
