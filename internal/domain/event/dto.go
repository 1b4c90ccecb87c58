package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

// EventRequest holds the editable fields shared by create and edit.
type EventRequest struct {
	EventName        string   `json:"eventName"`
	EventHost        Host     `json:"eventHost"`
	EventLocation    string   `json:"eventLocation"`
	EventDescription string   `json:"eventDescription"`
	MeetingLink      *string  `json:"meetingLink,omitempty"`
	EventDate        string   `json:"eventDate"`
	EventDateEnd     string   `json:"eventDateEnd"`
	SchedStart       string   `json:"eventSchedStart"`
	SchedEnd         string   `json:"eventSchedEnd"`
	InvitedEmails    []string `json:"invitedEmails"`
	Presence
}

type CreateEventRequest struct {
	EventRequest
}

type UpdateEventRequest struct {
	EventID string `json:"-"`
	EventRequest
}

func (r *CreateEventRequest) Validate() error {
	errs := r.EventRequest.validate()
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateEventRequest) Validate() error {
	errs := r.EventRequest.validate()
	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{Field: "eventId", Message: "eventId is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *EventRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventName) {
		errs = append(errs, validator.ValidationError{Field: "eventName", Message: "eventName is required"})
	} else if len(r.EventName) > 255 {
		errs = append(errs, validator.ValidationError{Field: "eventName", Message: "eventName must not exceed 255 characters"})
	}
	if !r.EventHost.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "eventHost", Message: "eventHost must be one of LGMED, LGCDD, ORD, FAD, PDMU, RICTU, LU, Others"})
	}
	if validator.IsEmpty(r.EventLocation) {
		errs = append(errs, validator.ValidationError{Field: "eventLocation", Message: "eventLocation is required"})
	}
	if r.MeetingLink != nil && !validator.IsEmpty(*r.MeetingLink) && !validator.IsValidURL(strings.TrimSpace(*r.MeetingLink)) {
		errs = append(errs, validator.ValidationError{Field: "meetingLink", Message: "meetingLink must be a valid http or https URL"})
	}

	start, startOK := validator.IsValidDate(r.EventDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "eventDate", Message: "eventDate must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EventDateEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "eventDateEnd", Message: "eventDateEnd must be in YYYY-MM-DD format"})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "eventDateEnd", Message: "eventDateEnd must not be before eventDate"})
		} else if int(end.Sub(start).Hours()/24)+1 > MaxEventDays {
			errs = append(errs, validator.ValidationError{Field: "eventDateEnd", Message: fmt.Sprintf("an event may span at most %d days", MaxEventDays)})
		}
	}

	startClockOK := validator.IsValidClock(r.SchedStart)
	if !startClockOK {
		errs = append(errs, validator.ValidationError{Field: "eventSchedStart", Message: "eventSchedStart must be in HH:MM format"})
	}
	endClockOK := validator.IsValidClock(r.SchedEnd)
	if !endClockOK {
		errs = append(errs, validator.ValidationError{Field: "eventSchedEnd", Message: "eventSchedEnd must be in HH:MM format"})
	}
	// zero-padded HH:MM compares lexically
	if startClockOK && endClockOK && r.SchedEnd <= r.SchedStart {
		errs = append(errs, validator.ValidationError{Field: "eventSchedEnd", Message: "eventSchedEnd must be after eventSchedStart"})
	}

	for _, email := range r.InvitedEmails {
		if !validator.IsValidEmail(strings.TrimSpace(email)) {
			errs = append(errs, validator.ValidationError{Field: "invitedEmails", Message: "invalid email address: " + email})
			break
		}
	}

	return errs
}

// Dates returns the parsed date range. Call after Validate.
func (r *EventRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(DateLayout, r.EventDate)
	end, _ := time.Parse(DateLayout, r.EventDateEnd)
	return start, end
}

type DeclineEventRequest struct {
	EventID      string `json:"-"`
	EventRemarks string `json:"eventRemarks"`
}

func (r *DeclineEventRequest) Validate() error {
	if validator.IsEmpty(r.EventRemarks) {
		return ErrRemarksRequired
	}
	return nil
}

type InterruptEventRequest struct {
	EventID                  string `json:"-"`
	ReasonPostponedCancelled string `json:"reasonPostponedCancelled"`
}

func (r *InterruptEventRequest) Validate() error {
	if validator.IsEmpty(r.ReasonPostponedCancelled) {
		return ErrReasonRequired
	}
	return nil
}

type RecipientPreviewRequest struct {
	InvitedEmails []string `json:"invitedEmails"`
	Presence
}

// Filter selects a slice of the calendar for listing.
type Filter string

const (
	FilterAll        Filter = ""
	FilterApproved   Filter = "approved"
	FilterDeclined   Filter = "declined"
	FilterUnapproved Filter = "unapproved"
	FilterScheduled  Filter = "scheduled"
	FilterInProgress Filter = "inProgress"
	FilterCompleted  Filter = "completed"
	FilterPostponed  Filter = "postponed"
	FilterCancelled  Filter = "cancelled"
)

var filters = []Filter{
	FilterAll, FilterApproved, FilterDeclined, FilterUnapproved, FilterScheduled,
	FilterInProgress, FilterCompleted, FilterPostponed, FilterCancelled,
}

func (f Filter) IsValid() bool {
	for _, v := range filters {
		if f == v {
			return true
		}
	}
	return false
}

// Status returns the lifecycle status a status filter selects.
func (f Filter) Status() (Status, bool) {
	switch f {
	case FilterScheduled:
		return StatusScheduled, true
	case FilterInProgress:
		return StatusInProgress, true
	case FilterCompleted:
		return StatusCompleted, true
	case FilterPostponed:
		return StatusPostponed, true
	case FilterCancelled:
		return StatusCancelled, true
	}
	return "", false
}

type ListEventsRequest struct {
	Filter Filter
	Date   string
}

func (r *ListEventsRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Filter.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "filter", Message: "unknown filter " + string(r.Filter)})
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter is the repository-level query built from a ListEventsRequest.
type ListFilter struct {
	Filter Filter
	On     *time.Time
}

type EventResponse struct {
	EventID                  string   `json:"eventId"`
	EventName                string   `json:"eventName"`
	EventHost                Host     `json:"eventHost"`
	EventLocation            string   `json:"eventLocation"`
	EventDescription         string   `json:"eventDescription"`
	MeetingLink              *string  `json:"meetingLink"`
	EventDate                string   `json:"eventDate"`
	EventDateEnd             string   `json:"eventDateEnd"`
	SchedStart               string   `json:"eventSchedStart"`
	SchedEnd                 string   `json:"eventSchedEnd"`
	EventSched               string   `json:"eventSched,omitempty"`
	InvitedEmails            []string `json:"invitedEmails"`
	IsApproved               bool     `json:"isApproved"`
	EventRemarks             *string  `json:"eventRemarks"`
	ApprovedEventStatus      *Status  `json:"approvedEventStatus"`
	ReasonPostponedCancelled *string  `json:"reasonPostponedCancelled"`
	Presence
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewEventResponse(e Event) EventResponse {
	emails := e.InvitedEmails
	if emails == nil {
		emails = []string{}
	}
	return EventResponse{
		EventID:                  e.EventID,
		EventName:                e.Name,
		EventHost:                e.Host,
		EventLocation:            e.Location,
		EventDescription:         e.Description,
		MeetingLink:              e.MeetingLink,
		EventDate:                e.EventDate.Format(DateLayout),
		EventDateEnd:             e.EventDateEnd.Format(DateLayout),
		SchedStart:               e.SchedStart,
		SchedEnd:                 e.SchedEnd,
		InvitedEmails:            emails,
		IsApproved:               e.IsApproved,
		EventRemarks:             e.EventRemarks,
		ApprovedEventStatus:      e.ApprovedEventStatus,
		ReasonPostponedCancelled: e.ReasonPostponedCancelled,
		Presence:                 e.Presence,
		CreatedBy:                e.CreatedBy,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
}

// NotificationSummary reports the outcome of a notification batch.
type NotificationSummary struct {
	Attempted int      `json:"attempted"`
	Sent      int      `json:"sent"`
	Failed    []string `json:"failed,omitempty"`
}

type LifecycleResponse struct {
	Event        EventResponse        `json:"event"`
	Notification *NotificationSummary `json:"notification,omitempty"`
}

type RecipientPreviewResponse struct {
	InvitedEmails []string `json:"invitedEmails"`
}
