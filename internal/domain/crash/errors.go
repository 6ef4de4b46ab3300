package crash

import "github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"

var (
	ErrInvalidCrashID   = errs.New(errs.KindValidation, "invalid crash id")
	ErrInvalidUserID    = errs.New(errs.KindValidation, "invalid user id")
	ErrInvalidCommentID = errs.New(errs.KindValidation, "invalid parent comment id")
	ErrInvalidVote      = errs.New(errs.KindValidation, "vote type must be verify or reject")
	ErrEmptyComment     = errs.New(errs.KindValidation, "comment text is required")
	ErrFutureCrash      = errs.New(errs.KindValidation, "crash date cannot be in the future")
	ErrNegativeCount    = errs.New(errs.KindValidation, "injury and fatality counts must be non-negative")
	ErrMissingField     = errs.New(errs.KindValidation, "crash report missing required field")
	ErrNoSearchCriteria = errs.New(errs.KindValidation, "at least one search criterion is required")

	ErrParentNotFound = errs.New(errs.KindNotFound, "parent comment not found on this crash")

	ErrCommentQuota = errs.New(errs.KindQuotaExceeded, "comment limit per crash reached")
	ErrVoteQuota    = errs.New(errs.KindQuotaExceeded, "witness vote limit reached")
)
