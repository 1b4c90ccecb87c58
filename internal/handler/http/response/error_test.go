package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "eventName", Message: "eventName is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &event.ConflictError{Conflicts: []event.Conflict{{EventID: "2026-0001"}}}, http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped transition", fmt.Errorf("%w: approve from Scheduled", event.ErrInvalidTransition), http.StatusBadRequest, "BAD_REQUEST"},
		{"event not found", event.ErrEventNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"incorrect password", user.ErrIncorrectPassword, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"pending", auth.ErrAccountPending, http.StatusForbidden, "FORBIDDEN"},
		{"not admin", user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate id", user.ErrUserIDExists, http.StatusConflict, "CONFLICT"},
		{"self demote", user.ErrCannotModifySelf, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("password authentication failed for user postgres"))
	assert.NotContains(t, rec.Body.String(), "postgres")
}
