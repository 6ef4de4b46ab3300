package crash

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/telemetry"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/retry"
)

type CastWitnessVoteInput struct {
	CrashID string
	VoterID string
	// VoterDisplay is snapshotted on a new report. Empty resolves the
	// voter's name from the user store.
	VoterDisplay string
	Vote         string
}

// CastWitnessVote records or flips the voter's verdict and recomputes accuracy.
// Repeating the same vote is a no-op. The vote ceiling is enforced by VoteLimiter.
func (s *Service) CastWitnessVote(ctx context.Context, input CastWitnessVoteInput) (detail CrashDetail, err error) {
	if err := s.checkReady(ctx, true, true); err != nil {
		return CrashDetail{}, err
	}

	crashID, err := ids.Normalize(input.CrashID, domaincrash.ErrInvalidCrashID)
	if err != nil {
		return CrashDetail{}, err
	}
	voterID, err := ids.Normalize(input.VoterID, domaincrash.ErrInvalidUserID)
	if err != nil {
		return CrashDetail{}, err
	}
	vote, err := domaincrash.ParseVoteKind(input.Vote)
	if err != nil {
		return CrashDetail{}, err
	}

	ctx, span := telemetry.Start(ctx, tracerName, "crash.CastWitnessVote",
		attribute.String("crash_id", crashID),
		attribute.String("vote", string(vote)),
	)
	defer func() { telemetry.End(span, err) }()

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.crash"),
		slog.String("crash_id", crashID),
		slog.String("voter_id", voterID),
	)

	display := input.VoterDisplay
	if display == "" {
		voter, err := s.users.GetUser(ctx, voterID)
		if err != nil {
			return CrashDetail{}, errs.Wrap(err, "load voter")
		}
		display = displayName(voter)
	}

	var (
		saved   ports.Crash
		outcome domaincrash.VoteOutcome
	)
	if err := retry.OnConflict(logCtx, "crash.witness_vote", s.limits.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(txCtx context.Context) error {
			crash, err := s.crashes.GetCrash(txCtx, crashID)
			if err != nil {
				return err
			}

			next, result := domaincrash.ApplyWitnessVote(crash.WitnessReports, voterID, display, vote)
			outcome = result
			if result == domaincrash.VoteUnchanged {
				saved = crash
				return nil
			}

			accuracy := domaincrash.AccuracyPercentage(next)
			if err := s.crashes.SaveWitnessReports(txCtx, crashID, crash.Revision, next, accuracy); err != nil {
				return err
			}

			crash.WitnessReports = next
			crash.AccuracyPercentage = accuracy
			crash.Revision++
			saved = crash
			return nil
		})
	}); err != nil {
		return CrashDetail{}, err
	}

	witnessVotes.WithLabelValues(outcome.String()).Inc()
	span.SetAttributes(attribute.String("outcome", outcome.String()))

	if outcome == domaincrash.VoteCreated {
		if err := s.users.IncrementCrashesWitnessed(ctx, voterID); err != nil {
			logging.Warn(logCtx, "increment crashes witnessed failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(logCtx, "witness vote processed",
		slog.String("outcome", outcome.String()),
		slog.Int("accuracy_percentage", saved.AccuracyPercentage),
	)
	return newCrashDetail(saved, voterID), nil
}

// CountVotesCast returns how many witness reports userID has on file across all crashes.
func (s *Service) CountVotesCast(ctx context.Context, userID string) (int64, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return 0, err
	}

	normalized, err := ids.Normalize(userID, domaincrash.ErrInvalidUserID)
	if err != nil {
		return 0, err
	}

	count, err := s.crashes.CountWitnessVotesByRater(ctx, normalized)
	if err != nil {
		return 0, errs.Wrap(err, "count votes cast")
	}
	return count, nil
}
