package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuthServiceImpl struct {
	txManager TxManager
	users     user.UserRepository
	sessions  auth.SessionRepository
	tokens    jwt.Service
	now       func() time.Time
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Signup implements auth.AuthService.
func (a *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}
	dob, _ := validator.IsValidDate(req.DateOfBirth)

	created, err := a.users.Create(ctx, user.User{
		ID:             req.ID,
		Name:           strings.TrimSpace(req.Name),
		Email:          validator.NormalizeEmail(req.Email),
		DateOfBirth:    dob,
		JobPosition:    strings.TrimSpace(req.JobPosition),
		AssignedOffice: strings.TrimSpace(req.AssignedOffice),
		PasswordHash:   hash,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user signed up", "user_id", created.ID, "office", created.AssignedOffice)
	return user.NewUserResponse(created), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, tracking auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	found, err := a.users.GetByEmail(ctx, validator.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !found.IsApproved {
		return auth.TokenResponse{}, auth.ErrAccountPending
	}

	refreshToken, refreshExpiresAt, err := a.tokens.GenerateRefreshToken()
	if err != nil {
		return auth.TokenResponse{}, err
	}

	session := auth.Session{
		ID:               uuid.New().String(),
		UserID:           found.ID,
		RefreshTokenHash: a.tokens.HashRefreshToken(refreshToken),
		UserAgent:        tracking.UserAgent,
		IPAddress:        tracking.IPAddress,
		ExpiresAt:        time.Unix(refreshExpiresAt, 0),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, accessExpiresAt, err := a.tokens.GenerateAccessToken(accessClaims(found, session.ID))
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("user logged in", "user_id", found.ID, "session_id", session.ID)
	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresAt,
		UserID:                found.ID,
		Name:                  found.Name,
		IsAdmin:               found.IsAdmin,
	}, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	oldHash := a.tokens.HashRefreshToken(req.RefreshToken)
	var resp auth.TokenResponse

	err := a.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := a.sessions.GetByRefreshTokenHash(txCtx, oldHash)
		if err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				return auth.ErrInvalidToken
			}
			return err
		}
		if !session.IsActive(a.now()) {
			return auth.ErrRefreshTokenRevoked
		}

		found, err := a.users.GetByID(txCtx, session.UserID)
		if err != nil {
			return err
		}
		if !found.IsApproved {
			return auth.ErrAccountPending
		}

		refreshToken, refreshExpiresAt, err := a.tokens.GenerateRefreshToken()
		if err != nil {
			return err
		}
		if err := a.sessions.RotateRefreshToken(txCtx, session.ID, oldHash, a.tokens.HashRefreshToken(refreshToken), time.Unix(refreshExpiresAt, 0)); err != nil {
			return err
		}

		accessToken, accessExpiresAt, err := a.tokens.GenerateAccessToken(accessClaims(found, session.ID))
		if err != nil {
			return err
		}

		resp = auth.TokenResponse{
			AccessToken:           accessToken,
			AccessTokenExpiresIn:  accessExpiresAt,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresAt,
			UserID:                found.ID,
			Name:                  found.Name,
			IsAdmin:               found.IsAdmin,
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, actor user.Actor) error {
	if err := a.sessions.Revoke(ctx, actor.SessionID); err != nil {
		return err
	}
	slog.Info("user logged out", "user_id", actor.UserID, "session_id", actor.SessionID)
	return nil
}

// ValidateSession implements auth.AuthService.
// Role flags come from the user row, not the token, so a demotion applies
// to requests made with tokens issued before it.
func (a *AuthServiceImpl) ValidateSession(ctx context.Context, sessionID string) (user.Actor, error) {
	session, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return user.Actor{}, auth.ErrInvalidToken
		}
		return user.Actor{}, err
	}
	if !session.IsActive(a.now()) {
		return user.Actor{}, auth.ErrInvalidToken
	}

	owner, err := a.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.Actor{}, auth.ErrInvalidToken
		}
		return user.Actor{}, err
	}
	return user.Actor{
		UserID:    owner.ID,
		SessionID: session.ID,
		Name:      owner.Name,
		Email:     owner.Email,
		IsAdmin:   owner.IsAdmin,
	}, nil
}

// PurgeExpiredSessions implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return a.sessions.DeleteExpired(ctx, a.now())
}

func accessClaims(u user.User, sessionID string) jwt.AccessClaims {
	return jwt.AccessClaims{
		UserID:    u.ID,
		SessionID: sessionID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}

func NewAuthService(txManager TxManager, users user.UserRepository, sessions auth.SessionRepository, tokens jwt.Service, now func() time.Time) auth.AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthServiceImpl{
		txManager: txManager,
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		now:       now,
	}
}
