package event

import (
	"context"
	"time"
)

type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, eventID string) (Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
	// ListActiveBetween returns approved Scheduled or In Progress events whose
	// date range intersects [from, to].
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	// Update writes the editable fields while the event is still in one of states.
	Update(ctx context.Context, event Event, states []State) (Event, error)
	ApplyTransition(ctx context.Context, eventID string, t Transition) (Event, error)
	Delete(ctx context.Context, eventID string) error

	// LockIDSequence serializes identifier allocation for year until the
	// surrounding transaction ends.
	LockIDSequence(ctx context.Context, year int) error
	// LatestIDForYear returns the highest identifier issued in year, or "".
	LatestIDForYear(ctx context.Context, year int) (string, error)
}
