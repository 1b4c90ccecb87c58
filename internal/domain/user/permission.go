package user

// Actor is the authenticated caller resolved from a validated session.
type Actor struct {
	UserID    int64
	SessionID string
	Name      string
	Email     string
	IsAdmin   bool
}

// CanReviewEvents reports whether the actor may approve or decline events.
func (a Actor) CanReviewEvents() bool {
	return a.IsAdmin
}

// CanManageUsers reports whether the actor may approve, promote, demote or decline users.
func (a Actor) CanManageUsers() bool {
	return a.IsAdmin
}

// CanViewProfile reports whether the actor may read the profile of userID.
func (a Actor) CanViewProfile(userID int64) bool {
	return a.IsAdmin || a.UserID == userID
}
