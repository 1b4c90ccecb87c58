package user

import "time"

const (
	PositionRegionalDirector          = "Regional Director"
	PositionAssistantRegionalDirector = "Assistant Regional Director"
)

const (
	OfficeLGMED = "Local Government Monitoring and Evaluation Division"
	OfficeLGCDD = "Local Government Capacity Development Division"
	OfficeORD   = "Office of the Regional Director"
	OfficeFAD   = "Finance and Administrative Division"
	OfficePDMU  = "Project Development Management Unit"
	OfficeRICTU = "Regional Information and Communication Technology Unit"
	OfficeLEGAL = "Legal Unit"
)

type User struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	DateOfBirth    time.Time `db:"date_of_birth"`
	JobPosition    string    `db:"job_position"`
	AssignedOffice string    `db:"assigned_office"`
	PasswordHash   string    `db:"password_hash"`
	ProfileImage   *string   `db:"profile_image"`
	IsApproved     bool      `db:"is_approved"`
	IsAdmin        bool      `db:"is_admin"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// IsDirector reports whether the user holds the RD or ARD position.
func (u *User) IsDirector() bool {
	return u.JobPosition == PositionRegionalDirector || u.JobPosition == PositionAssistantRegionalDirector
}
