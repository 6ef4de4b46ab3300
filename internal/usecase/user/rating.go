package user

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/telemetry"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/retry"
)

type RateUserInput struct {
	TargetUserID string
	RaterID      string
	// Value is +1 (up) or -1 (down).
	Value int
}

// RateUser records or flips the rater's vote and adjusts the target's score.
// Repeating the same vote is a no-op.
func (s *Service) RateUser(ctx context.Context, input RateUserInput) (profile Profile, err error) {
	if err := s.checkReady(ctx, true); err != nil {
		return Profile{}, err
	}

	targetID, err := ids.Normalize(input.TargetUserID, domainuser.ErrInvalidUserID)
	if err != nil {
		return Profile{}, err
	}
	raterID, err := ids.Normalize(input.RaterID, domainuser.ErrInvalidUserID)
	if err != nil {
		return Profile{}, err
	}
	if targetID == raterID {
		return Profile{}, domainuser.ErrSelfRating
	}
	if err := domainuser.ValidateRatingValue(input.Value); err != nil {
		return Profile{}, err
	}

	ctx, span := telemetry.Start(ctx, tracerName, "user.RateUser",
		attribute.String("target_user_id", targetID),
		attribute.Int("value", input.Value),
	)
	defer func() { telemetry.End(span, err) }()

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.user"),
		slog.String("target_user_id", targetID),
		slog.String("rater_id", raterID),
	)

	var (
		saved   ports.User
		outcome domainuser.RatingOutcome
	)
	if err := retry.OnConflict(logCtx, "user.rate", s.opts.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(txCtx context.Context) error {
			target, err := s.users.GetUser(txCtx, targetID)
			if err != nil {
				return err
			}

			next, delta, result := domainuser.ApplyRating(target.Ratings, raterID, input.Value)
			outcome = result
			if result == domainuser.RatingUnchanged {
				saved = target
				return nil
			}

			score := target.SocialCreditRating + delta
			if err := s.users.SaveRatings(txCtx, targetID, target.Revision, next, score); err != nil {
				return err
			}

			target.Ratings = next
			target.SocialCreditRating = score
			target.Revision++
			saved = target
			return nil
		})
	}); err != nil {
		return Profile{}, err
	}

	ratingsApplied.WithLabelValues(outcome.String()).Inc()
	logging.Info(logCtx, "user rating processed",
		slog.String("outcome", outcome.String()),
		slog.Int("social_credit_rating", saved.SocialCreditRating),
	)
	return newProfile(saved, raterID), nil
}
