package event

import (
	"fmt"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
)

// Candidate is a proposed schedule checked against the approved calendar.
type Candidate struct {
	// EventID is set when editing so the event does not conflict with itself.
	EventID    string
	DateStart  time.Time
	DateEnd    time.Time
	SchedStart string
	SchedEnd   string
	Presence   event.Presence
}

// DetectConflicts checks every date of the candidate against the approved
// events covering that date. Two events conflict when their times overlap
// or when both need the Regional or Assistant Regional Director.
func DetectConflicts(c Candidate, existing []event.Event) ([]event.Conflict, error) {
	start, err := event.Minutes(c.SchedStart)
	if err != nil {
		return nil, err
	}
	end, err := event.Minutes(c.SchedEnd)
	if err != nil {
		return nil, err
	}

	var conflicts []event.Conflict
	seen := make(map[string]bool)

	for d := c.DateStart; !d.After(c.DateEnd); d = d.AddDate(0, 0, 1) {
		for i := range existing {
			ex := &existing[i]
			if ex.EventID == c.EventID || seen[ex.EventID] || !blocksCalendar(ex) || !ex.Covers(d) {
				continue
			}

			exStart, err := event.Minutes(ex.SchedStart)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", ex.EventID, err)
			}
			exEnd, err := event.Minutes(ex.SchedEnd)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", ex.EventID, err)
			}

			var kind event.ConflictKind
			switch {
			case start < exEnd && end > exStart:
				kind = event.ConflictTimeOverlap
			case ex.NeedsDirector() && c.Presence.NeedsDirector():
				kind = event.ConflictDirectorDoubleBooked
			default:
				continue
			}

			seen[ex.EventID] = true
			conflicts = append(conflicts, event.Conflict{
				EventID:   ex.EventID,
				EventName: ex.Name,
				Date:      d.Format(event.DateLayout),
				Kind:      kind,
			})
		}
	}

	return conflicts, nil
}

func blocksCalendar(e *event.Event) bool {
	s := e.State()
	return s == event.StateScheduled || s == event.StateInProgress
}
