package user

import (
	"strings"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var (
	ErrInvalidUserID      = errs.New(errs.KindValidation, "invalid user id")
	ErrSelfRating         = errs.New(errs.KindValidation, "you cannot rate yourself")
	ErrInvalidRatingValue = errs.New(errs.KindValidation, "vote value must be 1 (up) or -1 (down)")
	ErrInvalidDirection   = errs.New(errs.KindValidation, "rating type must be up or down")
)

type Rating struct {
	RaterID string `json:"raterId"`
	Value   int    `json:"value"`
}

type RatingOutcome int

const (
	RatingUnchanged RatingOutcome = iota
	RatingCreated
	RatingChanged
)

func (o RatingOutcome) String() string {
	switch o {
	case RatingCreated:
		return "created"
	case RatingChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// ValidateRatingValue only admits +1 and -1; ApplyRating's flip delta depends on it.
func ValidateRatingValue(value int) error {
	if value != 1 && value != -1 {
		return ErrInvalidRatingValue
	}
	return nil
}

// ParseDirection maps "up"/"down" to +1/-1.
func ParseDirection(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return 1, nil
	case "down":
		return -1, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// ApplyRating records value for raterID and returns the score delta.
// A flip moves the score by 2*value: the old contribution is removed and the new one added.
func ApplyRating(ratings []Rating, raterID string, value int) ([]Rating, int, RatingOutcome) {
	for i, rating := range ratings {
		if rating.RaterID != raterID {
			continue
		}
		if rating.Value == value {
			return ratings, 0, RatingUnchanged
		}

		next := make([]Rating, len(ratings))
		copy(next, ratings)
		next[i].Value = value
		return next, value * 2, RatingChanged
	}

	next := make([]Rating, len(ratings), len(ratings)+1)
	copy(next, ratings)
	next = append(next, Rating{RaterID: raterID, Value: value})
	return next, value, RatingCreated
}

// FindRating returns the value raterID gave, if any.
func FindRating(ratings []Rating, raterID string) (int, bool) {
	for _, rating := range ratings {
		if rating.RaterID == raterID {
			return rating.Value, true
		}
	}
	return 0, false
}
