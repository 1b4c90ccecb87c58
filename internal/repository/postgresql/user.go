package postgresql

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const userColumns = `id, name, email, date_of_birth, job_position, assigned_office, password_hash,
	profile_image, is_approved, is_admin, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, name, email, date_of_birth, job_position, assigned_office, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	var created user.User
	err := pgxscan.Get(ctx, q, &created, query,
		newUser.ID,
		newUser.Name,
		newUser.Email,
		newUser.DateOfBirth,
		newUser.JobPosition,
		newUser.AssignedOffice,
		newUser.PasswordHash,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users_pkey"):
			return user.User{}, user.ErrUserIDExists
		case isUniqueViolation(err, "users_email_key"):
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var found user.User
	if err := pgxscan.Get(ctx, q, &found, query, id); err != nil {
		if pgxscan.NotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return found, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var found user.User
	if err := pgxscan.Get(ctx, q, &found, query, email); err != nil {
		if pgxscan.NotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return found, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.Filter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.Select(userColumns).From("users")
	switch filter {
	case user.FilterAll:
	case user.FilterPending:
		builder = builder.Where(squirrel.Eq{"is_approved": false})
	case user.FilterApproved:
		builder = builder.Where(squirrel.Eq{"is_approved": true})
	case user.FilterAdmin:
		builder = builder.Where(squirrel.Eq{"is_admin": true})
	case user.FilterDirectors:
		builder = builder.Where(squirrel.Eq{"is_approved": true}).Where(squirrel.Eq{"job_position": []string{
			user.PositionRegionalDirector,
			user.PositionAssistantRegionalDirector,
		}})
	default:
		return nil, fmt.Errorf("%w: %s", user.ErrInvalidUserFilter, filter)
	}

	query, args, err := builder.OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	users := []user.User{}
	if err := pgxscan.Select(ctx, q, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListApproved implements user.UserRepository.
func (r *userRepositoryImpl) ListApproved(ctx context.Context) ([]user.User, error) {
	return r.List(ctx, user.FilterApproved)
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $1, email = $2, date_of_birth = $3, job_position = $4, assigned_office = $5,
			password_hash = $6, profile_image = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING ` + userColumns

	var updated user.User
	err := pgxscan.Get(ctx, q, &updated, query,
		u.Name,
		u.Email,
		u.DateOfBirth,
		u.JobPosition,
		u.AssignedOffice,
		u.PasswordHash,
		u.ProfileImage,
		u.ID,
	)
	if err != nil {
		if pgxscan.NotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// SetApproved implements user.UserRepository.
func (r *userRepositoryImpl) SetApproved(ctx context.Context, id int64) (user.User, error) {
	return r.setFlag(ctx, id, "is_approved", true)
}

// SetAdmin implements user.UserRepository.
func (r *userRepositoryImpl) SetAdmin(ctx context.Context, id int64, isAdmin bool) (user.User, error) {
	return r.setFlag(ctx, id, "is_admin", isAdmin)
}

func (r *userRepositoryImpl) setFlag(ctx context.Context, id int64, column string, value bool) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Update("users").
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("build update %s query: %w", column, err)
	}

	var updated user.User
	if err := pgxscan.Get(ctx, q, &updated, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("update %s: %w", column, err)
	}
	return updated, nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
