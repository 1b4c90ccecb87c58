package event

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// MaxEventDays bounds the inclusive date range of a single event.
	MaxEventDays = 366
)

// Minutes converts an "HH:MM" time of day to minutes after midnight.
func Minutes(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Format12h renders "HH:MM" as "9:00 AM". Unparseable input is returned as is.
func Format12h(clock string) string {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// Schedule renders the event's time range, e.g. "09:00 AM to 10:00 AM".
func (e *Event) Schedule() string {
	return formatPadded12h(e.SchedStart) + " to " + formatPadded12h(e.SchedEnd)
}

func formatPadded12h(clock string) string {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("03:04 PM")
}
