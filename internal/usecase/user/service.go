package user

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/retry"
)

const tracerName = "samaritan/usecase/user"

type Options struct {
	MaxUpdateAttempts int
	// PasswordCost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	PasswordCost int
}

type Service struct {
	users ports.UserRepository
	uow   ports.UnitOfWork
	opts  Options
	now   func() time.Time
}

func NewService(users ports.UserRepository, uow ports.UnitOfWork, opts Options) *Service {
	if opts.MaxUpdateAttempts <= 0 {
		opts.MaxUpdateAttempts = retry.DefaultAttempts
	}
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.DefaultCost
	}
	return &Service{
		users: users,
		uow:   uow,
		opts:  opts,
		now:   time.Now,
	}
}

func (s *Service) checkReady(ctx context.Context, needTx bool) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.users == nil {
		return errors.New("user repository is required")
	}
	if needTx && s.uow == nil {
		return errors.New("user unit of work is required")
	}
	return nil
}

// Profile is a user record without credentials, as seen by one viewer.
type Profile struct {
	UserID             string
	Handle             string
	FirstName          string
	LastName           string
	Email              string
	Gender             string
	City               string
	State              string
	DateOfBirth        string
	SocialCreditRating int
	CrashesWitnessed   int
	SubmittedCrashIDs  []string
	CommentedCrashIDs  []string
	SignupDate         string
	LastLogin          *string
	RatingCount        int
	// ViewerVote is +1, -1 or 0 when the viewer has not rated this user.
	ViewerVote int
}

func newProfile(user ports.User, viewerID string) Profile {
	profile := Profile{
		UserID:             user.UserID,
		Handle:             user.Handle,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		Gender:             user.Gender,
		City:               user.City,
		State:              user.State,
		DateOfBirth:        user.DateOfBirth,
		SocialCreditRating: user.SocialCreditRating,
		CrashesWitnessed:   user.CrashesWitnessed,
		SubmittedCrashIDs:  user.SubmittedCrashIDs,
		CommentedCrashIDs:  user.CommentedCrashIDs,
		SignupDate:         user.SignupDate,
		LastLogin:          user.LastLogin,
		RatingCount:        len(user.Ratings),
	}
	if viewerID != "" {
		for _, rating := range user.Ratings {
			if rating.RaterID == viewerID {
				profile.ViewerVote = rating.Value
				break
			}
		}
	}
	return profile
}
