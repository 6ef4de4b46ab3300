package errs

import "errors"

// Kind tags a failure so callers can render or map it without string matching.
type Kind string

const (
	KindInternal      Kind = "internal"
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindUpdateFailed  Kind = "update_failed"
)

// Error is a tagged failure. Values are usually declared once as sentinels
// and wrapped with Wrap/Wrapf for call-site context.
type Error struct {
	kind Kind
	msg  string
}

// New returns a tagged error. Each call yields a distinct sentinel.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() Kind    { return e.kind }

// KindOf returns the first kind found in the unwrap chain, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns a caller-safe message: the full text for tagged errors and
// a generic one for untagged (internal) failures.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var tagged *Error
	if errors.As(err, &tagged) && tagged.kind != KindInternal {
		return err.Error()
	}
	return "internal error"
}
