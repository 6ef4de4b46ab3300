package user

import (
	"strings"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var (
	ErrHandleTaken        = errs.New(errs.KindValidation, "user id already exists")
	ErrInvalidCredentials = errs.New(errs.KindValidation, "either the user id or password is invalid")
	ErrMissingField       = errs.New(errs.KindValidation, "registration missing required field")
	ErrPasswordTooLong    = errs.New(errs.KindValidation, "password must be at most 72 bytes")
)

// NormalizeHandle trims and lower-cases a login handle; handles are case-insensitive.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}
