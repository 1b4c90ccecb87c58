package auth

import (
	"context"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
)

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (TokenResponse, error)
	Logout(ctx context.Context, actor user.Actor) error
	// ValidateSession confirms the session behind an access token is still
	// active and returns its owner as currently stored.
	ValidateSession(ctx context.Context, sessionID string) (user.Actor, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
