package crash

import (
	"context"
	"errors"
	"testing"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

func TestPostCommentAndReply(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	author := env.createUser(t, "author", "Ada", "Park")
	crash := env.createCrash(t, author.UserID)

	top, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: author.UserID, Text: "  I saw it happen  "})
	if err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if top.Comment.Text != "I saw it happen" || top.Comment.FirstName != "Ada" || top.Comment.IsReply() {
		t.Fatalf("PostComment() comment = %+v", top.Comment)
	}

	reply, err := env.svc.PostComment(ctx, PostCommentInput{
		CrashID:         crash.Crash.CrashID,
		AuthorID:        author.UserID,
		Text:            "Adding detail",
		ParentCommentID: top.Comment.ID,
	})
	if err != nil {
		t.Fatalf("PostComment(reply) error = %v", err)
	}
	if !reply.Comment.IsReply() || *reply.Comment.ParentCommentID != top.Comment.ID {
		t.Fatalf("PostComment(reply) comment = %+v", reply.Comment)
	}

	detail, err := env.svc.GetCrash(ctx, GetCrashInput{CrashID: crash.Crash.CrashID})
	if err != nil {
		t.Fatalf("GetCrash() error = %v", err)
	}
	if len(detail.TopLevel) != 1 || len(detail.Replies) != 1 {
		t.Fatalf("GetCrash() thread = %d/%d", len(detail.TopLevel), len(detail.Replies))
	}

	commented := env.reloadUser(t, author.UserID).CommentedCrashIDs
	if len(commented) != 1 || commented[0] != crash.Crash.CrashID {
		t.Fatalf("commented crash ids = %v", commented)
	}
}

func TestPostCommentRejectsOrphanReply(t *testing.T) {
	env := setupService(t, Limits{})
	author := env.createUser(t, "author", "Ada", "Park")
	crash := env.createCrash(t, author.UserID)

	_, err := env.svc.PostComment(context.Background(), PostCommentInput{
		CrashID:         crash.Crash.CrashID,
		AuthorID:        author.UserID,
		Text:            "reply to nothing",
		ParentCommentID: ids.New(),
	})
	if !errors.Is(err, domaincrash.ErrParentNotFound) || errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("PostComment() error = %v", err)
	}

	detail, err := env.svc.GetCrash(context.Background(), GetCrashInput{CrashID: crash.Crash.CrashID})
	if err != nil {
		t.Fatalf("GetCrash() error = %v", err)
	}
	if len(detail.Crash.Comments) != 0 {
		t.Fatalf("GetCrash() comments = %d", len(detail.Crash.Comments))
	}
}

func TestPostCommentQuota(t *testing.T) {
	env := setupService(t, Limits{MaxCommentsPerAuthor: 10})
	ctx := context.Background()
	author := env.createUser(t, "author", "Ada", "Park")
	other := env.createUser(t, "other", "Oli", "Ng")
	crash := env.createCrash(t, author.UserID)

	for i := 0; i < 10; i++ {
		if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: author.UserID, Text: "again"}); err != nil {
			t.Fatalf("PostComment(%d) error = %v", i+1, err)
		}
	}

	_, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: author.UserID, Text: "one too many"})
	if !errors.Is(err, domaincrash.ErrCommentQuota) || errs.KindOf(err) != errs.KindQuotaExceeded {
		t.Fatalf("PostComment(11th) error = %v", err)
	}

	if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: other.UserID, Text: "my first"}); err != nil {
		t.Fatalf("PostComment(other author) error = %v", err)
	}

	commented := env.reloadUser(t, author.UserID).CommentedCrashIDs
	if len(commented) != 1 {
		t.Fatalf("commented crash ids = %v", commented)
	}
}

func TestPostCommentValidation(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	author := env.createUser(t, "author", "Ada", "Park")
	crash := env.createCrash(t, author.UserID)

	if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: author.UserID, Text: "   "}); !errors.Is(err, domaincrash.ErrEmptyComment) {
		t.Fatalf("PostComment(empty) error = %v", err)
	}
	if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: author.UserID, Text: "x", ParentCommentID: "bad"}); !errors.Is(err, domaincrash.ErrInvalidCommentID) {
		t.Fatalf("PostComment(bad parent) error = %v", err)
	}
	if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: ids.New(), AuthorID: author.UserID, Text: "x"}); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("PostComment(missing crash) error = %v", err)
	}
	if _, err := env.svc.PostComment(ctx, PostCommentInput{CrashID: crash.Crash.CrashID, AuthorID: ids.New(), Text: "x"}); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("PostComment(missing author) error = %v", err)
	}
}
