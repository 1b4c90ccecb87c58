package user

import (
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

// Filter selects users on the admin page.
type Filter string

const (
	FilterAll      Filter = ""
	FilterPending  Filter = "Pending"
	FilterApproved Filter = "Approved"
	FilterAdmin    Filter = "Admin"
	// FilterDirectors selects Regional and Assistant Regional Directors.
	FilterDirectors Filter = "ARDRD"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterPending, FilterApproved, FilterAdmin, FilterDirectors:
		return true
	}
	return false
}

type EditProfileRequest struct {
	Name            *string
	Email           *string
	JobPosition     *string
	AssignedOffice  *string
	DateOfBirth     *string
	CurrentPassword string
	NewPassword     *string
}

// ChangesCredentials reports whether the edit touches email or password.
func (r *EditProfileRequest) ChangesCredentials() bool {
	return r.Email != nil || r.NewPassword != nil
}

func (r *EditProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if r.JobPosition != nil && validator.IsEmpty(*r.JobPosition) {
		errs = append(errs, validator.ValidationError{Field: "jobPosition", Message: "jobPosition must not be empty"})
	}
	if r.AssignedOffice != nil && validator.IsEmpty(*r.AssignedOffice) {
		errs = append(errs, validator.ValidationError{Field: "assignedOffice", Message: "assignedOffice must not be empty"})
	}
	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: "dateOfBirth must be in YYYY-MM-DD format"})
		}
	}
	if r.NewPassword != nil && len(*r.NewPassword) < 8 {
		errs = append(errs, validator.ValidationError{Field: "newPassword", Message: "newPassword must be at least 8 characters long"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	DateOfBirth    string    `json:"dateOfBirth"`
	JobPosition    string    `json:"jobPosition"`
	AssignedOffice string    `json:"assignedOffice"`
	ProfileImage   *string   `json:"profileImage"`
	IsApproved     bool      `json:"isApproved"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		DateOfBirth:    u.DateOfBirth.Format("2006-01-02"),
		JobPosition:    u.JobPosition,
		AssignedOffice: u.AssignedOffice,
		ProfileImage:   u.ProfileImage,
		IsApproved:     u.IsApproved,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
	}
}
