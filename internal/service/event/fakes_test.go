package event

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/email"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]event.Event
	order  []string
	clock  func() time.Time
	locks  []int
}

func newFakeEventRepo(clock func() time.Time) *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]event.Event), clock: clock}
}

func (r *fakeEventRepo) seed(events ...event.Event) {
	for _, e := range events {
		r.events[e.EventID] = e
		r.order = append(r.order, e.EventID)
	}
}

func (r *fakeEventRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.EventID]; ok {
		return event.Event{}, errors.New("duplicate event id")
	}
	e.CreatedAt = r.clock()
	e.UpdatedAt = e.CreatedAt
	r.events[e.EventID] = e
	r.order = append(r.order, e.EventID)
	return e, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) List(ctx context.Context, filter event.ListFilter) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, id := range r.order {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		if filter.On != nil && !e.Covers(*filter.On) {
			continue
		}
		state := e.State()
		match := true
		switch filter.Filter {
		case event.FilterApproved:
			match = state.IsApproved()
		case event.FilterDeclined:
			match = state == event.StateDeclined
		case event.FilterUnapproved:
			match = state == event.StateUnapproved
		default:
			if st, ok := filter.Filter.Status(); ok {
				match = e.IsApproved && e.ApprovedEventStatus != nil && *e.ApprovedEventStatus == st
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListActiveBetween(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, id := range r.order {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		s := e.State()
		if s != event.StateScheduled && s != event.StateInProgress {
			continue
		}
		if e.EventDate.After(to) || e.EventDateEnd.Before(from) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, e event.Event, states []event.State) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[e.EventID]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	allowed := false
	for _, s := range states {
		if current.State() == s {
			allowed = true
		}
	}
	if !allowed {
		return event.Event{}, event.ErrStaleState
	}
	e.IsApproved = current.IsApproved
	e.EventRemarks = current.EventRemarks
	e.ApprovedEventStatus = current.ApprovedEventStatus
	e.ReasonPostponedCancelled = current.ReasonPostponedCancelled
	e.CreatedBy = current.CreatedBy
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = r.clock()
	r.events[e.EventID] = e
	return e, nil
}

func (r *fakeEventRepo) ApplyTransition(ctx context.Context, id string, t event.Transition) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.State() != t.From {
		return event.Event{}, event.ErrStaleState
	}
	switch t.To {
	case event.StateDeclined:
		e.EventRemarks = t.Remarks
	default:
		st, _ := t.To.Status()
		e.IsApproved = true
		e.ApprovedEventStatus = &st
		if t.Reason != nil {
			e.ReasonPostponedCancelled = t.Reason
		}
	}
	e.UpdatedAt = r.clock()
	r.events[id] = e
	return e, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return event.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) LockIDSequence(ctx context.Context, year int) error {
	r.locks = append(r.locks, year)
	return nil
}

func (r *fakeEventRepo) LatestIDForYear(ctx context.Context, year int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := strings.TrimSuffix(event.YearPrefix(year), "%")
	var ids []string
	for _, id := range r.order {
		if _, ok := r.events[id]; ok && strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", nil
	}
	sort.Strings(ids)
	return ids[len(ids)-1], nil
}

type fakeDirectory struct {
	users []user.User
	calls int
}

func (d *fakeDirectory) ListApproved(ctx context.Context) ([]user.User, error) {
	d.calls++
	return d.users, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sentMail struct {
	kind string
	to   string
	data email.EventMailData
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail map[string]bool
}

func (m *fakeMailer) record(kind, to string, data email.EventMailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[to] {
		return errors.New("smtp: mailbox unavailable")
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, data: data})
	return nil
}

func (m *fakeMailer) SendEventInvitation(to string, data email.EventMailData) error {
	return m.record("invitation", to, data)
}

func (m *fakeMailer) SendEventInterruption(to string, data email.EventMailData) error {
	return m.record("interruption", to, data)
}

func (m *fakeMailer) recipients(kind string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.kind == kind {
			out = append(out, s.to)
		}
	}
	sort.Strings(out)
	return out
}

func date(s string) time.Time {
	t, err := time.Parse(event.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func statusPtr(s event.Status) *event.Status {
	return &s
}

func strPtr(s string) *string {
	return &s
}

func approvedEvent(id, day, start, end string, p event.Presence) event.Event {
	return event.Event{
		EventID:             id,
		Name:                "Event " + id,
		Host:                event.HostORD,
		Location:            "Conference Room",
		EventDate:           date(day),
		EventDateEnd:        date(day),
		SchedStart:          start,
		SchedEnd:            end,
		IsApproved:          true,
		ApprovedEventStatus: statusPtr(event.StatusScheduled),
		Presence:            p,
		CreatedBy:           "Seeder",
	}
}

var directoryUsers = []user.User{
	{ID: 1, Name: "Regional Director", Email: "rd@dilg.gov.ph", JobPosition: user.PositionRegionalDirector, AssignedOffice: user.OfficeORD, IsApproved: true},
	{ID: 2, Name: "Assistant Director", Email: "ard@dilg.gov.ph", JobPosition: user.PositionAssistantRegionalDirector, AssignedOffice: user.OfficeORD, IsApproved: true},
	{ID: 3, Name: "LGMED Chief", Email: "lgmed.chief@dilg.gov.ph", JobPosition: "Division Chief", AssignedOffice: user.OfficeLGMED, IsApproved: true},
	{ID: 4, Name: "LGMED Staff", Email: "lgmed.staff@dilg.gov.ph", JobPosition: "Staff", AssignedOffice: user.OfficeLGMED, IsApproved: true},
	{ID: 5, Name: "ORD Staff", Email: "ord.staff@dilg.gov.ph", JobPosition: "Staff", AssignedOffice: user.OfficeORD, IsApproved: true},
	{ID: 6, Name: "FAD Staff", Email: "fad.staff@dilg.gov.ph", JobPosition: "Staff", AssignedOffice: user.OfficeFAD, IsApproved: true},
	{ID: 7, Name: "Pending Staff", Email: "pending@dilg.gov.ph", JobPosition: "Staff", AssignedOffice: user.OfficeLGMED, IsApproved: false},
}
