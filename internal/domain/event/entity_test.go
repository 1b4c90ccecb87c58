package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Covers(t *testing.T) {
	ev := Event{
		EventDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EventDateEnd: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, ev.Covers(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ev.Covers(time.Date(2025, 3, 3, 23, 0, 0, 0, time.UTC)))
	assert.False(t, ev.Covers(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ev.Covers(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestSchedule(t *testing.T) {
	ev := Event{SchedStart: "09:00", SchedEnd: "13:15"}
	assert.Equal(t, "09:00 AM to 01:15 PM", ev.Schedule())
	assert.Equal(t, "9:00 AM", Format12h("09:00"))
	assert.Equal(t, "12:30 PM", Format12h("12:30"))

	m, err := Minutes("13:15")
	assert.NoError(t, err)
	assert.Equal(t, 795, m)
}

func TestPresence_NeedsDirector(t *testing.T) {
	assert.True(t, Presence{NeedRD: true}.NeedsDirector())
	assert.True(t, Presence{NeedARD: true}.NeedsDirector())
	assert.False(t, Presence{NeedLGMED: true, NeedORD: true}.NeedsDirector())
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{Conflicts: []Conflict{
		{EventID: "2025-0003", EventName: "Budget Hearing", Date: "2025-03-01", Kind: ConflictTimeOverlap},
	}}

	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.Contains(t, err.Error(), "2025-0003")
	assert.Equal(t, map[string]string{"2025-0003": "Budget Hearing on 2025-03-01 (time_overlap)"}, err.Details())
}
