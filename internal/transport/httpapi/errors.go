package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var (
	errActorRequired = errs.New(errs.KindValidation, "X-Actor-ID header is required")
	errInvalidBody   = errs.New(errs.KindValidation, "request body is not valid JSON")
	errInvalidLimit  = errs.New(errs.KindValidation, "limit must be a non-negative integer")
	errInvalidDate   = errs.New(errs.KindValidation, "dates must use YYYY-MM-DD")
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindQuotaExceeded:
		return http.StatusForbidden
	case errs.KindUpdateFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := statusForKind(kind)

	ctx := r.Context()
	if status >= http.StatusInternalServerError {
		logging.Error(ctx, "request failed", slog.Any("err", errs.Loggable(err)))
	} else {
		logging.Info(ctx, "request rejected", slog.String("kind", string(kind)), slog.String("reason", err.Error()))
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Kind: string(kind), Message: errs.Message(err)}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// validationError turns validator output into a validation-kind error naming
// the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return errs.New(errs.KindValidation, "field "+first.Field()+" failed "+first.Tag()+" check")
	}
	return errs.Wrap(errInvalidBody, err.Error())
}
