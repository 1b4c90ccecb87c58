package user

import (
	"context"
	"io"
)

// ProfileImage is an uploaded image accompanying a profile edit.
type ProfileImage struct {
	Filename string
	Content  io.Reader
}

type UserService interface {
	GetProfile(ctx context.Context, actor Actor, id int64) (UserResponse, error)
	EditProfile(ctx context.Context, actor Actor, req EditProfileRequest, image *ProfileImage) (UserResponse, error)

	List(ctx context.Context, filter Filter) ([]UserResponse, error)
	Approve(ctx context.Context, actor Actor, id int64) (UserResponse, error)
	Promote(ctx context.Context, actor Actor, id int64) (UserResponse, error)
	Demote(ctx context.Context, actor Actor, id int64) (UserResponse, error)
	Decline(ctx context.Context, actor Actor, id int64) error
}
