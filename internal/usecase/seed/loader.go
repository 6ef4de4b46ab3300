// Package seed loads demo fixtures through the regular usecases, so every
// fixture obeys the same rules as live traffic.
package seed

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

type Accounts interface {
	Register(ctx context.Context, input user.RegisterInput) (user.Profile, error)
	GetProfileByHandle(ctx context.Context, handle string) (user.Profile, error)
	RateUser(ctx context.Context, input user.RateUserInput) (user.Profile, error)
}

type Crashes interface {
	CreateCrash(ctx context.Context, input crash.CreateCrashInput) (crash.CrashDetail, error)
	CastWitnessVote(ctx context.Context, input crash.CastWitnessVoteInput) (crash.CrashDetail, error)
	PostComment(ctx context.Context, input crash.PostCommentInput) (crash.CommentItem, error)
}

type VoteGate interface {
	Allow(ctx context.Context, userID string) error
}

type Summary struct {
	UsersCreated  int
	UsersExisting int
	Crashes       int
	Votes         int
	Comments      int
	Ratings       int
}

type Loader struct {
	accounts Accounts
	crashes  Crashes
	gate     VoteGate
}

func NewLoader(accounts Accounts, crashes Crashes, gate VoteGate) *Loader {
	return &Loader{accounts: accounts, crashes: crashes, gate: gate}
}

func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Summary{}, errors.New("fixture file is required")
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return Summary{}, errs.Wrapf(err, "read fixture file %q", trimmed)
	}
	return l.Load(ctx, raw, FormatFromPath(trimmed))
}

// Load applies users, crashes, votes, comments and ratings in that order.
// Users whose handle already exists are reused.
func (l *Loader) Load(ctx context.Context, raw []byte, format Format) (Summary, error) {
	if ctx == nil {
		return Summary{}, errors.New("context is required")
	}
	if l.accounts == nil || l.crashes == nil {
		return Summary{}, errors.New("seed loader is not wired")
	}

	fixtures, err := decodeFixtures(raw, format)
	if err != nil {
		return Summary{}, errs.Wrap(err, "parse fixtures")
	}
	if err := fixtures.validate(); err != nil {
		return Summary{}, err
	}

	logCtx := logging.WithComponent(ctx, "usecase.seed")
	var summary Summary

	userIDs := make(map[string]string, len(fixtures.Users))
	for _, u := range fixtures.Users {
		handle := domainuser.NormalizeHandle(u.Handle)
		profile, err := l.accounts.Register(ctx, user.RegisterInput{
			Handle:      handle,
			Password:    u.Password,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			Gender:      u.Gender,
			City:        u.City,
			State:       u.State,
			DateOfBirth: u.DateOfBirth,
		})
		switch {
		case err == nil:
			summary.UsersCreated++
		case errors.Is(err, domainuser.ErrHandleTaken):
			profile, err = l.accounts.GetProfileByHandle(ctx, handle)
			if err != nil {
				return summary, errs.Wrapf(err, "load existing user %q", handle)
			}
			summary.UsersExisting++
		default:
			return summary, errs.Wrapf(err, "register user %q", handle)
		}
		userIDs[handle] = profile.UserID
	}
	userID := func(handle string) string {
		return userIDs[domainuser.NormalizeHandle(handle)]
	}

	crashIDs := make(map[string]string, len(fixtures.Crashes))
	for _, c := range fixtures.Crashes {
		detail, err := l.crashes.CreateCrash(ctx, c.toInput(userID(c.Creator)))
		if err != nil {
			return summary, errs.Wrapf(err, "create crash %q", c.Key)
		}
		crashIDs[c.Key] = detail.Crash.CrashID
		summary.Crashes++
	}

	for _, v := range fixtures.Votes {
		voterID := userID(v.Voter)
		if l.gate != nil {
			if err := l.gate.Allow(ctx, voterID); err != nil {
				return summary, errs.Wrapf(err, "vote by %q", v.Voter)
			}
		}
		if _, err := l.crashes.CastWitnessVote(ctx, crash.CastWitnessVoteInput{
			CrashID: crashIDs[v.Crash],
			VoterID: voterID,
			Vote:    v.Vote,
		}); err != nil {
			return summary, errs.Wrapf(err, "vote by %q on %q", v.Voter, v.Crash)
		}
		summary.Votes++
	}

	commentIDs := make(map[string]string, len(fixtures.Comments))
	for _, c := range fixtures.Comments {
		item, err := l.crashes.PostComment(ctx, crash.PostCommentInput{
			CrashID:         crashIDs[c.Crash],
			AuthorID:        userID(c.Author),
			Text:            c.Text,
			ParentCommentID: commentIDs[c.ReplyTo],
		})
		if err != nil {
			return summary, errs.Wrapf(err, "comment by %q on %q", c.Author, c.Crash)
		}
		if c.Key != "" {
			commentIDs[c.Key] = item.Comment.ID
		}
		summary.Comments++
	}

	for _, r := range fixtures.Ratings {
		value, err := domainuser.ParseDirection(r.Direction)
		if err != nil {
			return summary, errs.Wrapf(err, "rating of %q by %q", r.Target, r.Rater)
		}
		if _, err := l.accounts.RateUser(ctx, user.RateUserInput{
			TargetUserID: userID(r.Target),
			RaterID:      userID(r.Rater),
			Value:        value,
		}); err != nil {
			return summary, errs.Wrapf(err, "rating of %q by %q", r.Target, r.Rater)
		}
		summary.Ratings++
	}

	logging.Info(
		logCtx,
		"fixtures loaded",
		slog.Int("users_created", summary.UsersCreated),
		slog.Int("users_existing", summary.UsersExisting),
		slog.Int("crashes", summary.Crashes),
		slog.Int("votes", summary.Votes),
		slog.Int("comments", summary.Comments),
		slog.Int("ratings", summary.Ratings),
	)
	return summary, nil
}

func (c crashFixture) toInput(creatorID string) crash.CreateCrashInput {
	input := crash.CreateCrashInput{
		CreatorID:   creatorID,
		Source:      c.Source,
		CollisionID: c.CollisionID,
		OccurredAt:  c.OccurredAt,
		Borough:     c.Borough,
		ZipCode:     c.ZipCode,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		OnStreet:    c.OnStreet,
		CrossStreet: c.CrossStreet,
		OffStreet:   c.OffStreet,
		Summary:     c.Summary,
		Photos:      c.Photos,
		Casualties: domaincrash.Casualties{
			PersonsInjured:     c.PersonsInjured,
			PersonsKilled:      c.PersonsKilled,
			PedestriansInjured: c.PedestriansInjured,
			PedestriansKilled:  c.PedestriansKilled,
			CyclistsInjured:    c.CyclistsInjured,
			CyclistsKilled:     c.CyclistsKilled,
			MotoristsInjured:   c.MotoristsInjured,
			MotoristsKilled:    c.MotoristsKilled,
		},
	}
	for _, v := range c.Vehicles {
		vehicle := domaincrash.Vehicle{
			VehicleID:         v.PlateID,
			VehicleType:       v.Type,
			Make:              v.Make,
			Model:             v.Model,
			StateRegistration: v.StateRegistration,
			Damage:            v.Damage,
		}
		if v.Year > 0 {
			year := v.Year
			vehicle.Year = &year
		}
		input.Vehicles = append(input.Vehicles, vehicle)
	}
	return input
}
