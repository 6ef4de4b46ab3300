package crash

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/retry"
)

const (
	tracerName = "samaritan/usecase/crash"

	// ResultLimit caps search and vehicle lookup results.
	ResultLimit = 50

	statsCacheKey = "crash_stats:v1"
)

type Limits struct {
	MaxVotesPerUser      int
	MaxCommentsPerAuthor int
	MaxUpdateAttempts    int
	StatsTTL             time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		MaxVotesPerUser:      DefaultMaxVotesPerUser,
		MaxCommentsPerAuthor: domaincrash.DefaultMaxCommentsPerAuthor,
		MaxUpdateAttempts:    retry.DefaultAttempts,
	}
}

type Service struct {
	crashes ports.CrashRepository
	users   ports.UserRepository
	uow     ports.UnitOfWork
	cache   ports.Cache
	limits  Limits
	now     func() time.Time
}

// NewService wires crash usecases. cache may be nil.
func NewService(crashes ports.CrashRepository, users ports.UserRepository, uow ports.UnitOfWork, cache ports.Cache, limits Limits) *Service {
	defaults := DefaultLimits()
	if limits.MaxVotesPerUser <= 0 {
		limits.MaxVotesPerUser = defaults.MaxVotesPerUser
	}
	if limits.MaxCommentsPerAuthor <= 0 {
		limits.MaxCommentsPerAuthor = defaults.MaxCommentsPerAuthor
	}
	if limits.MaxUpdateAttempts <= 0 {
		limits.MaxUpdateAttempts = defaults.MaxUpdateAttempts
	}

	return &Service{
		crashes: crashes,
		users:   users,
		uow:     uow,
		cache:   cache,
		limits:  limits,
		now:     time.Now,
	}
}

func (s *Service) Limits() Limits {
	return s.limits
}

func (s *Service) checkReady(ctx context.Context, needUsers bool, needTx bool) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.crashes == nil {
		return errors.New("crash repository is required")
	}
	if needUsers && s.users == nil {
		return errors.New("user repository is required")
	}
	if needTx && s.uow == nil {
		return errors.New("crash unit of work is required")
	}
	return nil
}

func (s *Service) deleteCacheBestEffort(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logging.Warn(ctx, "cache delete failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.limits.StatsTTL); err != nil {
		logging.Warn(ctx, "cache set failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func displayName(user ports.User) string {
	name := user.FirstName
	if user.LastName != "" {
		if name != "" {
			name += " "
		}
		name += user.LastName
	}
	if name == "" {
		return user.Handle
	}
	return name
}
