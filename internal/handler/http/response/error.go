package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var conflictErr *event.ConflictError
	if errors.As(err, &conflictErr) {
		BadRequest(w, event.ErrScheduleConflict.Error(), conflictErr.Details())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrSessionNotFound):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountPending):
		Forbidden(w, err.Error())

	// User
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrIncorrectPassword):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrProfileAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserIDExists),
		errors.Is(err, user.ErrEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrCurrentPasswordNeeded),
		errors.Is(err, user.ErrCannotModifySelf),
		errors.Is(err, user.ErrUserAlreadyApproved),
		errors.Is(err, user.ErrInvalidUserFilter),
		errors.Is(err, user.ErrInvalidImageType):
		BadRequest(w, err.Error(), nil)

	// Event
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, event.ErrInvalidEventID),
		errors.Is(err, event.ErrInvalidTransition),
		errors.Is(err, event.ErrEventNotEditable),
		errors.Is(err, event.ErrReasonRequired),
		errors.Is(err, event.ErrRemarksRequired),
		errors.Is(err, event.ErrInvalidFilter),
		errors.Is(err, event.ErrStaleState):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
