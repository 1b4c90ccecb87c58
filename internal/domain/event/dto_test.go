package event

import (
	"errors"
	"testing"

	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventRequest_Validate_DateSpan(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{name: "single day", start: "2025-03-01", end: "2025-03-01"},
		{name: "full leap year", start: "2024-01-01", end: "2024-12-31"},
		{name: "end before start", start: "2025-03-02", end: "2025-03-01", wantErr: "eventDateEnd must not be before eventDate"},
		{name: "longer than a year", start: "2025-01-01", end: "2026-01-02", wantErr: "an event may span at most 366 days"},
		{name: "decades long", start: "2025-01-01", end: "2124-12-31", wantErr: "an event may span at most 366 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateEventRequest{EventRequest: EventRequest{
				EventName:     "Provincial Assessment",
				EventHost:     HostLGMED,
				EventLocation: "Conference Room A",
				EventDate:     tt.start,
				EventDateEnd:  tt.end,
				SchedStart:    "09:00",
				SchedEnd:      "11:00",
			}}

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.wantErr, verrs.ToMap()["eventDateEnd"])
		})
	}
}
