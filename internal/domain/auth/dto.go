package auth

import (
	"strings"

	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

type SignupRequest struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	DateOfBirth     string `json:"dateOfBirth"`
	JobPosition     string `json:"jobPosition"`
	AssignedOffice  string `json:"assignedOffice"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r *SignupRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a positive number",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	errs = append(errs, validateEmail(r.Email)...)
	if _, ok := validator.IsValidDate(r.DateOfBirth); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "dateOfBirth",
			Message: "dateOfBirth must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.JobPosition) {
		errs = append(errs, validator.ValidationError{
			Field:   "jobPosition",
			Message: "jobPosition is required",
		})
	}
	if validator.IsEmpty(r.AssignedOffice) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignedOffice",
			Message: "assignedOffice is required",
		})
	}
	errs = append(errs, validatePassword(r.Password)...)
	if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{
			Field:   "confirmPassword",
			Message: "confirmPassword must match password",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateEmail(r.Email)...)
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refreshToken",
			Message: "refreshToken is required",
		})
	}
	if len(r.RefreshToken) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "refreshToken",
			Message: "refreshToken must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	AccessTokenExpiresIn  int64  `json:"accessTokenExpiresIn"`
	RefreshToken          string `json:"refreshToken"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn"`
	UserID                int64  `json:"userId"`
	Name                  string `json:"name"`
	IsAdmin               bool   `json:"isAdmin"`
}

func validateEmail(email string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch {
	case validator.IsEmpty(email):
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	case len(email) > 254:
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must not exceed 254 characters"})
	case !validator.IsValidEmail(strings.TrimSpace(email)):
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	return errs
}

func validatePassword(password string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch {
	case validator.IsEmpty(password):
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	case len(password) < 8:
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	case len(password) > 72:
		// bcrypt ignores input past 72 bytes
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	return errs
}
