package event

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidEventID    = errors.New("invalid event id")
	ErrInvalidTransition = errors.New("event status does not allow this action")
	ErrEventNotEditable  = errors.New("event can no longer be edited")
	ErrReasonRequired    = errors.New("reason for postponing or cancelling is required")
	ErrRemarksRequired   = errors.New("remarks are required to decline an event")
	ErrScheduleConflict  = errors.New("schedule conflicts with an approved event")
	ErrInvalidFilter     = errors.New("invalid event filter")
	// ErrStaleState is returned by conditional writes when the stored event
	// is no longer in the expected state.
	ErrStaleState = errors.New("event state changed concurrently")
)

type ConflictKind string

const (
	ConflictTimeOverlap          ConflictKind = "time_overlap"
	ConflictDirectorDoubleBooked ConflictKind = "director_double_booked"
)

// Conflict names an approved event that blocks a candidate schedule.
type Conflict struct {
	EventID   string       `json:"eventId"`
	EventName string       `json:"eventName"`
	Date      string       `json:"date"`
	Kind      ConflictKind `json:"kind"`
}

type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.EventID)
	}
	return fmt.Sprintf("%s: %s", ErrScheduleConflict.Error(), strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrScheduleConflict
}

// Details maps each conflicting event id to the rule it triggered.
func (e *ConflictError) Details() map[string]string {
	details := make(map[string]string, len(e.Conflicts))
	for _, c := range e.Conflicts {
		details[c.EventID] = fmt.Sprintf("%s on %s (%s)", c.EventName, c.Date, c.Kind)
	}
	return details
}
