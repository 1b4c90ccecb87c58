package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter Filter) ([]User, error)
	// ListApproved returns every approved user, used to build the invitee directory.
	ListApproved(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, user User) (User, error)
	SetApproved(ctx context.Context, id int64) (User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) (User, error)
	Delete(ctx context.Context, id int64) error
}
