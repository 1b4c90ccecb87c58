package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/middleware"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const profileImageField = "profileImage"

type UserHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	EditProfile(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService   user.UserService
	maxUploadSize int64
}

func NewUserHandler(userService user.UserService, maxUploadSize int64) UserHandler {
	return &userHandlerImpl{
		userService:   userService,
		maxUploadSize: maxUploadSize,
	}
}

// GetProfile implements UserHandler
func (h *userHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// EditProfile implements UserHandler. The body is multipart/form-data; only
// the fields present in the form are changed.
func (h *userHandlerImpl) EditProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			response.BadRequest(w, "Uploaded file is too large", nil)
			return
		case errors.Is(err, http.ErrNotMultipart):
			if err := r.ParseForm(); err != nil {
				response.BadRequest(w, "Failed to parse form data", nil)
				return
			}
		default:
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
	}

	form := r.PostForm
	req := user.EditProfileRequest{
		Name:            formValue(form, "name"),
		Email:           formValue(form, "email"),
		JobPosition:     formValue(form, "jobPosition"),
		AssignedOffice:  formValue(form, "assignedOffice"),
		DateOfBirth:     formValue(form, "dateOfBirth"),
		CurrentPassword: form.Get("currentPassword"),
		NewPassword:     formValue(form, "newPassword"),
	}

	var image *user.ProfileImage
	if r.MultipartForm != nil {
		file, fileHeader, err := r.FormFile(profileImageField)
		switch {
		case err == nil:
			defer file.Close()
			image = &user.ProfileImage{Filename: fileHeader.Filename, Content: file}
		case !errors.Is(err, http.ErrMissingFile):
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	}

	updated, err := h.userService.EditProfile(r.Context(), actor, req, image)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", updated)
}

// formValue returns nil for absent or blank fields.
func formValue(form url.Values, key string) *string {
	if _, ok := form[key]; !ok {
		return nil
	}
	v := form.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid user id", nil)
		return 0, false
	}
	return id, true
}
