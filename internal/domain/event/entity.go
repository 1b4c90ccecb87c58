package event

import "time"

type Host string

const (
	HostLGMED  Host = "LGMED"
	HostLGCDD  Host = "LGCDD"
	HostORD    Host = "ORD"
	HostFAD    Host = "FAD"
	HostPDMU   Host = "PDMU"
	HostRICTU  Host = "RICTU"
	HostLU     Host = "LU"
	HostOthers Host = "Others"
)

var Hosts = []Host{HostLGMED, HostLGCDD, HostORD, HostFAD, HostPDMU, HostRICTU, HostLU, HostOthers}

func (h Host) IsValid() bool {
	for _, v := range Hosts {
		if h == v {
			return true
		}
	}
	return false
}

// Presence lists the roles and offices that must attend an event.
type Presence struct {
	NeedRD    bool `db:"need_rd" json:"needRD"`
	NeedARD   bool `db:"need_ard" json:"needARD"`
	NeedLGMED bool `db:"need_lgmed" json:"needLGMED"`
	NeedLGCDD bool `db:"need_lgcdd" json:"needLGCDD"`
	NeedORD   bool `db:"need_ord" json:"needORD"`
	NeedFAD   bool `db:"need_fad" json:"needFAD"`
	NeedPDMU  bool `db:"need_pdmu" json:"needPDMU"`
	NeedRICTU bool `db:"need_rictu" json:"needRICTU"`
	NeedLEGAL bool `db:"need_legal" json:"needLEGAL"`
}

// NeedsDirector reports whether the Regional or Assistant Regional Director must attend.
func (p Presence) NeedsDirector() bool {
	return p.NeedRD || p.NeedARD
}

type Event struct {
	EventID     string  `db:"event_id"`
	Name        string  `db:"event_name"`
	Host        Host    `db:"event_host"`
	Location    string  `db:"event_location"`
	Description string  `db:"event_description"`
	MeetingLink *string `db:"meeting_link"`

	EventDate    time.Time `db:"event_date"`
	EventDateEnd time.Time `db:"event_date_end"`
	// SchedStart and SchedEnd are "HH:MM" times of day.
	SchedStart string `db:"sched_start"`
	SchedEnd   string `db:"sched_end"`

	InvitedEmails []string `db:"invited_emails"`

	IsApproved               bool    `db:"is_approved"`
	EventRemarks             *string `db:"event_remarks"`
	ApprovedEventStatus      *Status `db:"approved_event_status"`
	ReasonPostponedCancelled *string `db:"reason_postponed_cancelled"`

	Presence

	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// State derives the lifecycle state from the persisted approval columns.
func (e *Event) State() State {
	if !e.IsApproved {
		if e.EventRemarks != nil {
			return StateDeclined
		}
		return StateUnapproved
	}
	if e.ApprovedEventStatus == nil {
		return StateScheduled
	}
	return stateForStatus(*e.ApprovedEventStatus)
}

// Covers reports whether date falls within the event's date range.
func (e *Event) Covers(date time.Time) bool {
	d := truncateDate(date)
	return !d.Before(truncateDate(e.EventDate)) && !d.After(truncateDate(e.EventDateEnd))
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
