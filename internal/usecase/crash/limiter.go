package crash

import (
	"context"
	"errors"
	"log/slog"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
)

const DefaultMaxVotesPerUser = 10

var errVoteCounterRequired = errors.New("vote counter is required")

type VoteCounter interface {
	CountVotesCast(ctx context.Context, userID string) (int64, error)
}

// VoteLimiter is an advisory ceiling on witness votes per user. It reads
// outside any transaction, so concurrent votes may overshoot it slightly.
type VoteLimiter struct {
	counter VoteCounter
	ceiling int
}

func NewVoteLimiter(counter VoteCounter, ceiling int) *VoteLimiter {
	if ceiling <= 0 {
		ceiling = DefaultMaxVotesPerUser
	}
	return &VoteLimiter{counter: counter, ceiling: ceiling}
}

// Allow rejects once the user's recorded votes exceed the ceiling.
func (l *VoteLimiter) Allow(ctx context.Context, userID string) error {
	if l == nil || l.counter == nil {
		return errVoteCounterRequired
	}

	count, err := l.counter.CountVotesCast(ctx, userID)
	if err != nil {
		return err
	}
	if count > int64(l.ceiling) {
		voteQuotaRejections.Inc()
		logging.Info(
			logging.WithComponent(ctx, "usecase.crash"),
			"witness vote refused by ceiling",
			slog.String("user_id", userID),
			slog.Int64("votes_cast", count),
			slog.Int("ceiling", l.ceiling),
		)
		return domaincrash.ErrVoteQuota
	}
	return nil
}
