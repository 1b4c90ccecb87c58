package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
	"github.com/dilg-calendar/calendar-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo    user.UserRepository
	fileService file.FileService
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	if !actor.CanViewProfile(id) {
		return user.UserResponse{}, user.ErrProfileAccessDenied
	}
	found, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.toResponse(found), nil
}

// EditProfile implements user.UserService.
func (s *UserServiceImpl) EditProfile(ctx context.Context, actor user.Actor, req user.EditProfileRequest, image *user.ProfileImage) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.ChangesCredentials() && req.CurrentPassword == "" {
		return user.UserResponse{}, user.ErrCurrentPasswordNeeded
	}
	if req.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return user.UserResponse{}, user.ErrIncorrectPassword
		}
	}

	updated := current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updated.Email = validator.NormalizeEmail(*req.Email)
	}
	if req.JobPosition != nil {
		updated.JobPosition = strings.TrimSpace(*req.JobPosition)
	}
	if req.AssignedOffice != nil {
		updated.AssignedOffice = strings.TrimSpace(*req.AssignedOffice)
	}
	if req.DateOfBirth != nil {
		updated.DateOfBirth, _ = time.Parse("2006-01-02", *req.DateOfBirth)
	}
	if req.NewPassword != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
	}

	var uploaded string
	if image != nil {
		uploaded, err = s.fileService.UploadProfileImage(ctx, current.ID, image.Content, image.Filename)
		if err != nil {
			return user.UserResponse{}, err
		}
		updated.ProfileImage = &uploaded
	}

	saved, err := s.userRepo.UpdateProfile(ctx, updated)
	if err != nil {
		if uploaded != "" {
			s.removeImage(ctx, uploaded)
		}
		return user.UserResponse{}, err
	}

	if uploaded != "" && current.ProfileImage != nil && *current.ProfileImage != uploaded {
		s.removeImage(ctx, *current.ProfileImage)
	}

	slog.Info("profile updated", "user_id", saved.ID, "image_changed", uploaded != "")
	return s.toResponse(saved), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.Filter) ([]user.UserResponse, error) {
	if !filter.IsValid() {
		return nil, fmt.Errorf("%w: %s", user.ErrInvalidUserFilter, filter)
	}
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, s.toResponse(u))
	}
	return resp, nil
}

// Approve implements user.UserService.
func (s *UserServiceImpl) Approve(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	if !actor.CanManageUsers() {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}
	approved, err := s.userRepo.SetApproved(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("user approved", "user_id", id, "approved_by", actor.UserID)
	return s.toResponse(approved), nil
}

// Promote implements user.UserService.
func (s *UserServiceImpl) Promote(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	return s.setAdmin(ctx, actor, id, true)
}

// Demote implements user.UserService.
func (s *UserServiceImpl) Demote(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	if actor.UserID == id {
		return user.UserResponse{}, user.ErrCannotModifySelf
	}
	return s.setAdmin(ctx, actor, id, false)
}

func (s *UserServiceImpl) setAdmin(ctx context.Context, actor user.Actor, id int64, isAdmin bool) (user.UserResponse, error) {
	if !actor.CanManageUsers() {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}
	updated, err := s.userRepo.SetAdmin(ctx, id, isAdmin)
	if err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("user admin flag changed", "user_id", id, "is_admin", isAdmin, "changed_by", actor.UserID)
	return s.toResponse(updated), nil
}

// Decline implements user.UserService. Only pending accounts can be declined.
func (s *UserServiceImpl) Decline(ctx context.Context, actor user.Actor, id int64) error {
	if !actor.CanManageUsers() {
		return user.ErrAdminPrivilegeRequired
	}
	if actor.UserID == id {
		return user.ErrCannotModifySelf
	}

	found, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found.IsApproved {
		return user.ErrUserAlreadyApproved
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if found.ProfileImage != nil {
		s.removeImage(ctx, *found.ProfileImage)
	}

	slog.Info("user declined", "user_id", id, "declined_by", actor.UserID)
	return nil
}

func (s *UserServiceImpl) removeImage(ctx context.Context, key string) {
	if err := s.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("failed to delete profile image", "key", key, "error", err)
	}
}

func (s *UserServiceImpl) toResponse(u user.User) user.UserResponse {
	resp := user.NewUserResponse(u)
	if u.ProfileImage != nil && *u.ProfileImage != "" {
		url := s.fileService.GetFileURL(*u.ProfileImage)
		resp.ProfileImage = &url
	}
	return resp
}

func NewUserService(userRepo user.UserRepository, fileService file.FileService) user.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		fileService: fileService,
	}
}
