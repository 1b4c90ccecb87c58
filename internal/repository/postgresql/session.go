package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const sessionColumns = `id::text AS id, user_id, refresh_token_hash, user_agent, ip_address, expires_at, revoked_at, created_at`

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a new instance of auth.SessionRepository.
func NewSessionRepository(db *database.DB) auth.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, s auth.Session) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO sessions (id, user_id, refresh_token_hash, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query, s.ID, s.UserID, s.RefreshTokenHash, s.UserAgent, s.IPAddress, s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (auth.Session, error) {
	return r.getBy(ctx, "id = $1::uuid", id)
}

func (r *sessionRepositoryImpl) GetByRefreshTokenHash(ctx context.Context, hash string) (auth.Session, error) {
	return r.getBy(ctx, "refresh_token_hash = $1", hash)
}

func (r *sessionRepositoryImpl) getBy(ctx context.Context, where string, arg any) (auth.Session, error) {
	q := GetQuerier(ctx, r.db)

	var s auth.Session
	if err := pgxscan.Get(ctx, q, &s, `SELECT `+sessionColumns+` FROM sessions WHERE `+where, arg); err != nil {
		if pgxscan.NotFound(err) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// RotateRefreshToken swaps the refresh token only if oldHash is still current,
// so a replayed token loses the race.
func (r *sessionRepositoryImpl) RotateRefreshToken(ctx context.Context, id, oldHash, newHash string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE sessions
		SET refresh_token_hash = $1, expires_at = $2
		WHERE id = $3::uuid AND refresh_token_hash = $4 AND revoked_at IS NULL
	`
	tag, err := q.Exec(ctx, query, newHash, expiresAt.UTC(), id, oldHash)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrRefreshTokenRevoked
	}
	return nil
}

func (r *sessionRepositoryImpl) Revoke(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE id = $1::uuid AND revoked_at IS NULL
	`
	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $1)
	`
	tag, err := q.Exec(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
