package crash

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/telemetry"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/stamp"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/retry"
)

type PostCommentInput struct {
	CrashID  string
	AuthorID string
	Text     string
	// ParentCommentID is empty for a top-level comment.
	ParentCommentID string
}

// PostComment appends a comment or reply to a crash thread.
func (s *Service) PostComment(ctx context.Context, input PostCommentInput) (item CommentItem, err error) {
	if err := s.checkReady(ctx, true, true); err != nil {
		return CommentItem{}, err
	}

	crashID, err := ids.Normalize(input.CrashID, domaincrash.ErrInvalidCrashID)
	if err != nil {
		return CommentItem{}, err
	}
	authorID, err := ids.Normalize(input.AuthorID, domaincrash.ErrInvalidUserID)
	if err != nil {
		return CommentItem{}, err
	}
	text, err := domaincrash.NormalizeCommentText(input.Text)
	if err != nil {
		return CommentItem{}, err
	}

	var parentID *string
	if input.ParentCommentID != "" {
		normalized, err := ids.Normalize(input.ParentCommentID, domaincrash.ErrInvalidCommentID)
		if err != nil {
			return CommentItem{}, err
		}
		parentID = &normalized
	}

	ctx, span := telemetry.Start(ctx, tracerName, "crash.PostComment",
		attribute.String("crash_id", crashID),
		attribute.Bool("reply", parentID != nil),
	)
	defer func() { telemetry.End(span, err) }()

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.crash"),
		slog.String("crash_id", crashID),
		slog.String("author_id", authorID),
	)

	policy := domaincrash.CommentPolicy{MaxPerAuthor: s.limits.MaxCommentsPerAuthor}
	var created domaincrash.Comment
	if err := retry.OnConflict(logCtx, "crash.post_comment", s.limits.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.uow.WithTx(ctx, func(txCtx context.Context) error {
			crash, err := s.crashes.GetCrash(txCtx, crashID)
			if err != nil {
				return err
			}
			if err := policy.Check(crash.Comments, authorID, parentID); err != nil {
				return err
			}

			author, err := s.users.GetUser(txCtx, authorID)
			if err != nil {
				return errs.Wrap(err, "load comment author")
			}

			created = domaincrash.Comment{
				ID:              ids.New(),
				UserID:          authorID,
				Text:            text,
				FirstName:       author.FirstName,
				LastName:        author.LastName,
				CreatedAt:       stamp.Format(s.now()),
				ParentCommentID: parentID,
			}

			next := make([]domaincrash.Comment, len(crash.Comments), len(crash.Comments)+1)
			copy(next, crash.Comments)
			next = append(next, created)
			return s.crashes.SaveComments(txCtx, crashID, crash.Revision, next)
		})
	}); err != nil {
		return CommentItem{}, err
	}

	kind := "top_level"
	if created.IsReply() {
		kind = "reply"
	}
	commentsPosted.WithLabelValues(kind).Inc()

	if err := s.users.AddCommentedCrash(ctx, authorID, crashID); err != nil {
		logging.Warn(logCtx, "link commented crash failed", slog.Any("err", errs.Loggable(err)))
	}

	logging.Info(logCtx, "comment posted", slog.String("comment_id", created.ID), slog.String("kind", kind))
	return CommentItem{CrashID: crashID, Comment: created}, nil
}
