package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionSet maps active session ids to their owners.
type sessionSet map[string]user.Actor

func (s sessionSet) ValidateSession(ctx context.Context, sessionID string) (user.Actor, error) {
	actor, ok := s[sessionID]
	if !ok {
		return user.Actor{}, auth.ErrInvalidToken
	}
	return actor, nil
}

func protected(tokens *jwt.JWTService, sessions SessionValidator, seen *user.Actor) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return jwtauth.Verifier(tokens.JWTAuth())(AuthRequired(tokens, sessions)(final))
}

func TestAuthRequired(t *testing.T) {
	tokens := jwt.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour, time.Hour)
	other := jwt.NewJWTService("ffffffffffffffffffffffffffffffff", time.Hour, time.Hour)

	claims := jwt.AccessClaims{UserID: 12, SessionID: "s-1", Name: "Ana", Email: "ana@dilg.gov.ph", IsAdmin: true}
	valid, _, err := tokens.GenerateAccessToken(claims)
	require.NoError(t, err)
	forged, _, err := other.GenerateAccessToken(claims)
	require.NoError(t, err)
	revoked, _, err := tokens.GenerateAccessToken(jwt.AccessClaims{UserID: 12, SessionID: "s-2", Name: "Ana", Email: "ana@dilg.gov.ph"})
	require.NoError(t, err)
	borrowed, _, err := tokens.GenerateAccessToken(jwt.AccessClaims{UserID: 99, SessionID: "s-1", Name: "Ben", Email: "ben@dilg.gov.ph", IsAdmin: true})
	require.NoError(t, err)

	owner := user.Actor{UserID: 12, SessionID: "s-1", Name: "Ana", Email: "ana@dilg.gov.ph", IsAdmin: true}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong signature", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized},
		{name: "revoked session", header: "Bearer " + revoked, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "session of another user", header: "Bearer " + borrowed, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen user.Actor
			h := protected(tokens, sessionSet{"s-1": owner}, &seen)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, owner, seen)
			}
		})
	}
}

func TestAuthRequired_RoleFromStoredUser(t *testing.T) {
	tokens := jwt.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour, time.Hour)
	issuedAsAdmin, _, err := tokens.GenerateAccessToken(jwt.AccessClaims{UserID: 12, SessionID: "s-1", Name: "Ana", Email: "ana@dilg.gov.ph", IsAdmin: true})
	require.NoError(t, err)

	// demoted after the token was issued
	sessions := sessionSet{"s-1": {UserID: 12, SessionID: "s-1", Name: "Ana"}}

	var seen user.Actor
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issuedAsAdmin)
	rec := httptest.NewRecorder()
	protected(tokens, sessions, &seen).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.IsAdmin)

	adminArea := jwtauth.Verifier(tokens.JWTAuth())(AuthRequired(tokens, sessions)(AdminOnly(http.NotFoundHandler())))
	rec = httptest.NewRecorder()
	adminArea.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		ctx        context.Context
		wantStatus int
	}{
		{name: "no actor", ctx: context.Background(), wantStatus: http.StatusUnauthorized},
		{name: "regular user", ctx: WithActor(context.Background(), user.Actor{UserID: 2}), wantStatus: http.StatusForbidden},
		{name: "admin", ctx: WithActor(context.Background(), user.Actor{UserID: 1, IsAdmin: true}), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			AdminOnly(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
