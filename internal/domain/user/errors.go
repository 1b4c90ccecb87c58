package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserIDExists           = errors.New("user id already registered")
	ErrEmailExists            = errors.New("email already registered")
	ErrIncorrectPassword      = errors.New("incorrect current password")
	ErrCurrentPasswordNeeded  = errors.New("current password is required to change email or password")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrProfileAccessDenied    = errors.New("not allowed to view this profile")
	ErrCannotModifySelf       = errors.New("admins cannot demote or decline their own account")
	ErrUserAlreadyApproved    = errors.New("user is already approved")
	ErrInvalidUserFilter      = errors.New("invalid user filter")
	ErrInvalidImageType       = errors.New("invalid file type: only jpg, jpeg, png allowed")
)
