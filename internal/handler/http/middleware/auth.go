package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/response"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// SessionValidator resolves the session behind a token to its current owner.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (user.Actor, error)
}

// AuthRequired turns a verified access token into a user.Actor. It must run
// after jwtauth.Verifier. The actor reflects the stored user, so role changes
// take effect without waiting for the token to expire.
func AuthRequired(tokens jwt.Service, sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := tokens.ParseAccessClaims(token)
			if err != nil {
				slog.Debug("rejected access token", "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := sessions.ValidateSession(r.Context(), claims.SessionID)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if actor.UserID != claims.UserID {
				slog.Warn("session owner does not match token subject", "session_id", claims.SessionID, "user_id", claims.UserID)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller placed by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
