package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var eventColumns = []string{
	"event_id",
	"event_name",
	"event_host",
	"event_location",
	"event_description",
	"meeting_link",
	"event_date",
	"event_date_end",
	"to_char(sched_start, 'HH24:MI') AS sched_start",
	"to_char(sched_end, 'HH24:MI') AS sched_end",
	"invited_emails",
	"is_approved",
	"event_remarks",
	"approved_event_status",
	"reason_postponed_cancelled",
	"need_rd",
	"need_ard",
	"need_lgmed",
	"need_lgcdd",
	"need_ord",
	"need_fad",
	"need_pdmu",
	"need_rictu",
	"need_legal",
	"created_by",
	"created_at",
	"updated_at",
}

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepositoryImpl{db: db}
}

func returning() string {
	return "RETURNING " + strings.Join(eventColumns, ", ")
}

func emails(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// Create implements event.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, e event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("events").
		Columns(
			"event_id", "event_name", "event_host", "event_location", "event_description", "meeting_link",
			"event_date", "event_date_end", "sched_start", "sched_end", "invited_emails",
			"need_rd", "need_ard", "need_lgmed", "need_lgcdd", "need_ord", "need_fad", "need_pdmu", "need_rictu", "need_legal",
			"created_by",
		).
		Values(
			e.EventID, e.Name, e.Host, e.Location, e.Description, e.MeetingLink,
			e.EventDate, e.EventDateEnd, e.SchedStart, e.SchedEnd, emails(e.InvitedEmails),
			e.NeedRD, e.NeedARD, e.NeedLGMED, e.NeedLGCDD, e.NeedORD, e.NeedFAD, e.NeedPDMU, e.NeedRICTU, e.NeedLEGAL,
			e.CreatedBy,
		).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return event.Event{}, fmt.Errorf("build insert event query: %w", err)
	}

	var created event.Event
	if err := pgxscan.Get(ctx, q, &created, query, args...); err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

// GetByID implements event.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, eventID string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return event.Event{}, fmt.Errorf("build get event query: %w", err)
	}

	var found event.Event
	if err := pgxscan.Get(ctx, q, &found, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return event.Event{}, fmt.Errorf("%w: %s", event.ErrEventNotFound, eventID)
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return found, nil
}

// List implements event.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter event.ListFilter) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.Select(eventColumns...).From("events")

	switch filter.Filter {
	case event.FilterAll:
	case event.FilterApproved:
		builder = builder.Where(squirrel.Eq{"is_approved": true})
	case event.FilterDeclined:
		builder = builder.Where(squirrel.Eq{"is_approved": false}).Where(squirrel.NotEq{"event_remarks": nil})
	case event.FilterUnapproved:
		builder = builder.Where(squirrel.Eq{"is_approved": false, "event_remarks": nil})
	default:
		status, ok := filter.Filter.Status()
		if !ok {
			return nil, fmt.Errorf("%w: %s", event.ErrInvalidFilter, filter.Filter)
		}
		builder = builder.Where(statusCondition(status))
	}

	if filter.On != nil {
		builder = builder.
			Where(squirrel.LtOrEq{"event_date": *filter.On}).
			Where(squirrel.GtOrEq{"event_date_end": *filter.On})
	}

	query, args, err := builder.OrderBy("event_date ASC", "sched_start ASC", "event_id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	events := []event.Event{}
	if err := pgxscan.Select(ctx, q, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListActiveBetween implements event.EventRepository.
func (r *eventRepositoryImpl) ListActiveBetween(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(eventColumns...).
		From("events").
		Where(squirrel.Or{
			statusCondition(event.StatusScheduled),
			statusCondition(event.StatusInProgress),
		}).
		Where(squirrel.LtOrEq{"event_date": to}).
		Where(squirrel.GtOrEq{"event_date_end": from}).
		OrderBy("event_date ASC", "sched_start ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active events query: %w", err)
	}

	var events []event.Event
	if err := pgxscan.Select(ctx, q, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	return events, nil
}

// Update implements event.EventRepository.
func (r *eventRepositoryImpl) Update(ctx context.Context, e event.Event, states []event.State) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	inStates := squirrel.Or{}
	for _, s := range states {
		inStates = append(inStates, stateCondition(s))
	}

	query, args, err := psql.Update("events").
		Set("event_name", e.Name).
		Set("event_host", e.Host).
		Set("event_location", e.Location).
		Set("event_description", e.Description).
		Set("meeting_link", e.MeetingLink).
		Set("event_date", e.EventDate).
		Set("event_date_end", e.EventDateEnd).
		Set("sched_start", e.SchedStart).
		Set("sched_end", e.SchedEnd).
		Set("invited_emails", emails(e.InvitedEmails)).
		Set("need_rd", e.NeedRD).
		Set("need_ard", e.NeedARD).
		Set("need_lgmed", e.NeedLGMED).
		Set("need_lgcdd", e.NeedLGCDD).
		Set("need_ord", e.NeedORD).
		Set("need_fad", e.NeedFAD).
		Set("need_pdmu", e.NeedPDMU).
		Set("need_rictu", e.NeedRICTU).
		Set("need_legal", e.NeedLEGAL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"event_id": e.EventID}).
		Where(inStates).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return event.Event{}, fmt.Errorf("build update event query: %w", err)
	}

	var updated event.Event
	if err := pgxscan.Get(ctx, q, &updated, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return event.Event{}, event.ErrStaleState
		}
		return event.Event{}, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// ApplyTransition implements event.EventRepository.
func (r *eventRepositoryImpl) ApplyTransition(ctx context.Context, eventID string, t event.Transition) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.Update("events").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"event_id": eventID}).
		Where(stateCondition(t.From)).
		Suffix(returning())

	switch t.To {
	case event.StateDeclined:
		builder = builder.Set("event_remarks", t.Remarks)
	case event.StatePostponed, event.StateCancelled:
		status, _ := t.To.Status()
		builder = builder.
			Set("approved_event_status", status).
			Set("reason_postponed_cancelled", t.Reason)
	default:
		status, ok := t.To.Status()
		if !ok {
			return event.Event{}, fmt.Errorf("%w: cannot move to %s", event.ErrInvalidTransition, t.To)
		}
		builder = builder.
			Set("is_approved", true).
			Set("approved_event_status", status)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return event.Event{}, fmt.Errorf("build transition query: %w", err)
	}

	var updated event.Event
	if err := pgxscan.Get(ctx, q, &updated, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return event.Event{}, event.ErrStaleState
		}
		return event.Event{}, fmt.Errorf("apply transition: %w", err)
	}
	return updated, nil
}

// Delete implements event.EventRepository.
func (r *eventRepositoryImpl) Delete(ctx context.Context, eventID string) error {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Delete("events").Where(squirrel.Eq{"event_id": eventID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete event query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, eventID)
	}
	return nil
}

// LockIDSequence implements event.EventRepository.
func (r *eventRepositoryImpl) LockIDSequence(ctx context.Context, year int) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", fmt.Sprintf("event_id:%04d", year))
	if err != nil {
		return fmt.Errorf("lock event id sequence: %w", err)
	}
	return nil
}

// LatestIDForYear implements event.EventRepository. Identifiers are compared
// numerically; created_at is the transaction start time and can disagree
// with allocation order under concurrent creates.
func (r *eventRepositoryImpl) LatestIDForYear(ctx context.Context, year int) (string, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select("event_id").
		From("events").
		Where(squirrel.Like{"event_id": event.YearPrefix(year)}).
		OrderBy("LENGTH(event_id) DESC", "event_id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build latest event id query: %w", err)
	}

	var ids []string
	if err := pgxscan.Select(ctx, q, &ids, query, args...); err != nil {
		return "", fmt.Errorf("latest event id: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// statusCondition matches approved events in status. A NULL status on an
// approved row reads as Scheduled.
func statusCondition(status event.Status) squirrel.Sqlizer {
	if status == event.StatusScheduled {
		return squirrel.And{
			squirrel.Eq{"is_approved": true},
			squirrel.Or{
				squirrel.Eq{"approved_event_status": nil},
				squirrel.Eq{"approved_event_status": status},
			},
		}
	}
	return squirrel.Eq{"is_approved": true, "approved_event_status": status}
}

func stateCondition(s event.State) squirrel.Sqlizer {
	switch s {
	case event.StateUnapproved:
		return squirrel.Eq{"is_approved": false, "event_remarks": nil}
	case event.StateDeclined:
		return squirrel.And{squirrel.Eq{"is_approved": false}, squirrel.NotEq{"event_remarks": nil}}
	}
	status, _ := s.Status()
	return statusCondition(status)
}
