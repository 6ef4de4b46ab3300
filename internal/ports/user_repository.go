package ports

import (
	"context"

	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var ErrUserNotFound = errs.New(errs.KindNotFound, "user not found")

type User struct {
	UserID             string
	Handle             string
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       string
	Gender             string
	City               string
	State              string
	DateOfBirth        string
	SocialCreditRating int
	Ratings            []domainuser.Rating
	SubmittedCrashIDs  []string
	CommentedCrashIDs  []string
	CrashesWitnessed   int
	SignupDate         string
	LastLogin          *string
	Revision           uint64
}

type UserReadRepository interface {
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByHandle(ctx context.Context, handle string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type UserRepository interface {
	UserReadRepository
	// CreateUser fails with domainuser.ErrHandleTaken when the handle exists.
	CreateUser(ctx context.Context, user User) (User, error)
	// SaveRatings writes ratings and score together, conditional on revision.
	SaveRatings(ctx context.Context, userID string, revision uint64, ratings []domainuser.Rating, score int) error
	IncrementCrashesWitnessed(ctx context.Context, userID string) error
	AddCommentedCrash(ctx context.Context, userID string, crashID string) error
	AddSubmittedCrash(ctx context.Context, userID string, crashID string) error
	SetLastLogin(ctx context.Context, userID string, at string) error
}
