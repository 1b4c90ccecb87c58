package auth

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (Session, error)
	RotateRefreshToken(ctx context.Context, id, oldHash, newHash string, expiresAt time.Time) error
	Revoke(ctx context.Context, id string) error
	// DeleteExpired removes sessions expired or revoked before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
