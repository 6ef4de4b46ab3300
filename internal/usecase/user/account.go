package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/stamp"
	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type RegisterInput struct {
	Handle      string
	Password    string
	FirstName   string
	LastName    string
	Email       string
	Gender      string
	City        string
	State       string
	DateOfBirth string
}

// Register creates an account. Handles are unique regardless of case.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Profile, error) {
	if err := s.checkReady(ctx, false); err != nil {
		return Profile{}, err
	}

	handle := domainuser.NormalizeHandle(input.Handle)
	if handle == "" {
		return Profile{}, errs.Wrap(domainuser.ErrMissingField, "handle")
	}
	if input.Password == "" {
		return Profile{}, errs.Wrap(domainuser.ErrMissingField, "password")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return Profile{}, errs.Wrap(domainuser.ErrMissingField, "name")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.opts.PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Profile{}, domainuser.ErrPasswordTooLong
		}
		return Profile{}, errs.Wrap(err, "hash password")
	}

	created, err := s.users.CreateUser(ctx, ports.User{
		UserID:       ids.New(),
		Handle:       handle,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		Gender:       strings.TrimSpace(input.Gender),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		DateOfBirth:  strings.TrimSpace(input.DateOfBirth),
		SignupDate:   stamp.Format(s.now()),
	})
	if err != nil {
		return Profile{}, err
	}

	registrations.Inc()
	logging.Info(
		logging.WithComponent(ctx, "usecase.user"),
		"user registered",
		slog.String("user_id", created.UserID),
		slog.String("handle", created.Handle),
	)
	return newProfile(created, ""), nil
}

// Authenticate checks credentials and records the login time.
// Unknown handles and wrong passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, handle string, password string) (Profile, error) {
	if err := s.checkReady(ctx, false); err != nil {
		return Profile{}, err
	}

	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			logins.WithLabelValues("rejected").Inc()
			return Profile{}, domainuser.ErrInvalidCredentials
		}
		return Profile{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logins.WithLabelValues("rejected").Inc()
		return Profile{}, domainuser.ErrInvalidCredentials
	}

	at := stamp.Format(s.now())
	if err := s.users.SetLastLogin(ctx, user.UserID, at); err != nil {
		return Profile{}, errs.Wrap(err, "record last login")
	}
	user.LastLogin = &at

	logins.WithLabelValues("accepted").Inc()
	return newProfile(user, ""), nil
}

type GetProfileInput struct {
	UserID   string
	ViewerID string
}

func (s *Service) GetProfile(ctx context.Context, input GetProfileInput) (Profile, error) {
	if err := s.checkReady(ctx, false); err != nil {
		return Profile{}, err
	}

	userID, err := ids.Normalize(input.UserID, domainuser.ErrInvalidUserID)
	if err != nil {
		return Profile{}, err
	}
	viewerID := ""
	if strings.TrimSpace(input.ViewerID) != "" {
		viewerID, err = ids.Normalize(input.ViewerID, domainuser.ErrInvalidUserID)
		if err != nil {
			return Profile{}, err
		}
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return newProfile(user, viewerID), nil
}

// GetProfileByHandle resolves a login handle, case-insensitively.
func (s *Service) GetProfileByHandle(ctx context.Context, handle string) (Profile, error) {
	if err := s.checkReady(ctx, false); err != nil {
		return Profile{}, err
	}

	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		return Profile{}, err
	}
	return newProfile(user, ""), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]Profile, error) {
	if err := s.checkReady(ctx, false); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Profile, 0, len(users))
	for _, user := range users {
		items = append(items, newProfile(user, ""))
	}
	return items, nil
}
