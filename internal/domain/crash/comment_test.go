package crash

import (
	"errors"
	"testing"
	"time"
)

func TestCommentPolicyQuota(t *testing.T) {
	comments := make([]Comment, 0, 11)
	for i := 0; i < 10; i++ {
		comments = append(comments, Comment{ID: string(rune('a' + i)), UserID: "author"})
	}
	comments = append(comments, Comment{ID: "other", UserID: "someone-else"})

	policy := CommentPolicy{MaxPerAuthor: 10}
	if err := policy.Check(comments, "author", nil); !errors.Is(err, ErrCommentQuota) {
		t.Fatalf("Check() error = %v, want ErrCommentQuota", err)
	}
	if err := policy.Check(comments, "someone-else", nil); err != nil {
		t.Fatalf("Check() other author error = %v", err)
	}
}

func TestCommentPolicyParentMustExist(t *testing.T) {
	comments := []Comment{{ID: "c1", UserID: "u1"}}
	policy := CommentPolicy{}

	existing := "c1"
	if err := policy.Check(comments, "u2", &existing); err != nil {
		t.Fatalf("Check() existing parent error = %v", err)
	}

	missing := "c9"
	if err := policy.Check(comments, "u2", &missing); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("Check() error = %v, want ErrParentNotFound", err)
	}
}

func TestNormalizeCommentText(t *testing.T) {
	got, err := NormalizeCommentText("  saw it happen \n")
	if err != nil || got != "saw it happen" {
		t.Fatalf("NormalizeCommentText() = %q, %v", got, err)
	}
	if _, err := NormalizeCommentText("   "); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("NormalizeCommentText() error = %v, want ErrEmptyComment", err)
	}
}

func TestSplitThread(t *testing.T) {
	parent := "c1"
	empty := ""
	top, replies := SplitThread([]Comment{
		{ID: "c1"},
		{ID: "c2", ParentCommentID: &parent},
		{ID: "c3", ParentCommentID: &empty},
	})
	if len(top) != 2 || top[0].ID != "c1" || top[1].ID != "c3" {
		t.Fatalf("top level = %+v", top)
	}
	if len(replies) != 1 || replies[0].ID != "c2" {
		t.Fatalf("replies = %+v", replies)
	}
}

func TestSearchCriteriaNormalize(t *testing.T) {
	if _, err := (SearchCriteria{Borough: "All", Keyword: "  "}).Normalize(); !errors.Is(err, ErrNoSearchCriteria) {
		t.Fatalf("Normalize() error = %v, want ErrNoSearchCriteria", err)
	}

	to := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	got, err := (SearchCriteria{Borough: " Queens ", To: &to}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Borough != "Queens" {
		t.Fatalf("borough = %q", got.Borough)
	}
	upper, ok := got.UpperBound()
	if !ok || !upper.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("UpperBound() = %v, %v", upper, ok)
	}
}

func TestVehicleCriteriaMatches(t *testing.T) {
	year := 2019
	v := Vehicle{VehicleID: "ABC123", VehicleType: "Sedan", Make: "Honda", Model: "Civic", Year: &year}

	c, err := (VehicleCriteria{Make: " honda ", Year: "2019"}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !c.Matches(v) {
		t.Fatalf("Matches() = false, want true")
	}
	if (VehicleCriteria{Model: "accord"}).Matches(v) {
		t.Fatalf("Matches() model mismatch = true")
	}
	if (VehicleCriteria{Year: "20x9"}).Matches(v) {
		t.Fatalf("Matches() bad year = true")
	}
	if _, err := (VehicleCriteria{}).Normalize(); !errors.Is(err, ErrNoSearchCriteria) {
		t.Fatalf("Normalize() error = %v, want ErrNoSearchCriteria", err)
	}
}

func TestValidateOccurredAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := ValidateOccurredAt(now.Add(time.Hour), now); !errors.Is(err, ErrFutureCrash) {
		t.Fatalf("ValidateOccurredAt() error = %v, want ErrFutureCrash", err)
	}
	if err := ValidateOccurredAt(now.Add(-time.Hour), now); err != nil {
		t.Fatalf("ValidateOccurredAt() error = %v", err)
	}
	if err := (Casualties{CyclistsKilled: -1}).Validate(); !errors.Is(err, ErrNegativeCount) {
		t.Fatalf("Validate() error = %v, want ErrNegativeCount", err)
	}
}
