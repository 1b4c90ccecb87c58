package middleware

import (
	"net/http"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !actor.IsAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
