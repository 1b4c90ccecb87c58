package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

// TxManager runs fn inside a single database transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DirectoryReader lists the users that populate invitee groups.
type DirectoryReader interface {
	ListApproved(ctx context.Context) ([]user.User, error)
}

type EventServiceImpl struct {
	txManager TxManager
	eventRepo event.EventRepository
	users     DirectoryReader
	idGen     *IDGenerator
	notifier  *Notifier
	now       func() time.Time
}

// Create implements event.EventService.
func (s *EventServiceImpl) Create(ctx context.Context, actor user.Actor, req event.CreateEventRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	start, end := req.Dates()
	if err := s.checkNotPast(start); err != nil {
		return event.EventResponse{}, err
	}

	recipients, err := s.resolveRecipients(ctx, req.Presence, req.InvitedEmails)
	if err != nil {
		return event.EventResponse{}, err
	}

	if err := s.checkConflicts(ctx, Candidate{
		DateStart:  start,
		DateEnd:    end,
		SchedStart: req.SchedStart,
		SchedEnd:   req.SchedEnd,
		Presence:   req.Presence,
	}); err != nil {
		return event.EventResponse{}, err
	}

	newEvent := event.Event{
		Name:          strings.TrimSpace(req.EventName),
		Host:          req.EventHost,
		Location:      strings.TrimSpace(req.EventLocation),
		Description:   strings.TrimSpace(req.EventDescription),
		MeetingLink:   trimOptional(req.MeetingLink),
		EventDate:     start,
		EventDateEnd:  end,
		SchedStart:    req.SchedStart,
		SchedEnd:      req.SchedEnd,
		InvitedEmails: recipients,
		Presence:      req.Presence,
		CreatedBy:     actor.Name,
	}

	var created event.Event
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		id, err := s.idGen.Next(txCtx)
		if err != nil {
			return err
		}
		newEvent.EventID = id

		created, err = s.eventRepo.Create(txCtx, newEvent)
		return err
	})
	if err != nil {
		return event.EventResponse{}, fmt.Errorf("failed to create event: %w", err)
	}

	slog.Info("event created", "event_id", created.EventID, "created_by", actor.Name, "invitees", len(created.InvitedEmails))
	return event.NewEventResponse(created), nil
}

// Update implements event.EventService.
func (s *EventServiceImpl) Update(ctx context.Context, actor user.Actor, req event.UpdateEventRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	current, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return event.EventResponse{}, err
	}
	if !current.State().Editable() {
		return event.EventResponse{}, fmt.Errorf("%w: event is %s", event.ErrEventNotEditable, current.State())
	}

	start, end := req.Dates()
	if !start.Equal(current.EventDate) {
		if err := s.checkNotPast(start); err != nil {
			return event.EventResponse{}, err
		}
	}

	recipients, err := s.resolveRecipients(ctx, req.Presence, req.InvitedEmails)
	if err != nil {
		return event.EventResponse{}, err
	}

	if err := s.checkConflicts(ctx, Candidate{
		EventID:    current.EventID,
		DateStart:  start,
		DateEnd:    end,
		SchedStart: req.SchedStart,
		SchedEnd:   req.SchedEnd,
		Presence:   req.Presence,
	}); err != nil {
		return event.EventResponse{}, err
	}

	current.Name = strings.TrimSpace(req.EventName)
	current.Host = req.EventHost
	current.Location = strings.TrimSpace(req.EventLocation)
	current.Description = strings.TrimSpace(req.EventDescription)
	current.MeetingLink = trimOptional(req.MeetingLink)
	current.EventDate = start
	current.EventDateEnd = end
	current.SchedStart = req.SchedStart
	current.SchedEnd = req.SchedEnd
	current.InvitedEmails = recipients
	current.Presence = req.Presence

	updated, err := s.eventRepo.Update(ctx, current, []event.State{event.StateUnapproved, event.StateScheduled})
	if errors.Is(err, event.ErrStaleState) {
		return event.EventResponse{}, fmt.Errorf("%w: event changed status while editing", event.ErrEventNotEditable)
	}
	if err != nil {
		return event.EventResponse{}, fmt.Errorf("failed to update event: %w", err)
	}

	slog.Info("event updated", "event_id", updated.EventID, "updated_by", actor.Name)
	return event.NewEventResponse(updated), nil
}

// Get implements event.EventService.
func (s *EventServiceImpl) Get(ctx context.Context, eventID string) (event.EventResponse, error) {
	found, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return event.EventResponse{}, err
	}
	resp := event.NewEventResponse(found)
	resp.EventSched = found.Schedule()
	return resp, nil
}

// List implements event.EventService.
func (s *EventServiceImpl) List(ctx context.Context, req event.ListEventsRequest) ([]event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := event.ListFilter{Filter: req.Filter}
	if req.Date != "" {
		on, _ := time.Parse(event.DateLayout, req.Date)
		filter.On = &on
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	resp := make([]event.EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, event.NewEventResponse(e))
	}
	return resp, nil
}

// Delete implements event.EventService.
func (s *EventServiceImpl) Delete(ctx context.Context, eventID string) error {
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}
	slog.Info("event deleted", "event_id", eventID)
	return nil
}

// PreviewRecipients implements event.EventService.
func (s *EventServiceImpl) PreviewRecipients(ctx context.Context, req event.RecipientPreviewRequest) (event.RecipientPreviewResponse, error) {
	for _, email := range req.InvitedEmails {
		if !validator.IsValidEmail(strings.TrimSpace(email)) {
			return event.RecipientPreviewResponse{}, validator.ValidationErrors{{Field: "invitedEmails", Message: "invalid email address: " + email}}
		}
	}

	emails, err := s.resolveRecipients(ctx, req.Presence, req.InvitedEmails)
	if err != nil {
		return event.RecipientPreviewResponse{}, err
	}
	return event.RecipientPreviewResponse{InvitedEmails: emails}, nil
}

// Approve implements event.EventService.
func (s *EventServiceImpl) Approve(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	approved, err := s.apply(ctx, eventID, event.ActionApprove, nil, nil)
	if err != nil {
		return event.LifecycleResponse{}, err
	}

	summary := s.notifier.Notify(context.WithoutCancel(ctx), NotifyInvitation, approved)
	return event.LifecycleResponse{Event: event.NewEventResponse(approved), Notification: &summary}, nil
}

// Decline implements event.EventService.
func (s *EventServiceImpl) Decline(ctx context.Context, req event.DeclineEventRequest) (event.LifecycleResponse, error) {
	if err := req.Validate(); err != nil {
		return event.LifecycleResponse{}, err
	}

	declined, err := s.apply(ctx, req.EventID, event.ActionDecline, &req.EventRemarks, nil)
	if err != nil {
		return event.LifecycleResponse{}, err
	}
	return event.LifecycleResponse{Event: event.NewEventResponse(declined)}, nil
}

// MarkInProgress implements event.EventService.
func (s *EventServiceImpl) MarkInProgress(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	started, err := s.apply(ctx, eventID, event.ActionStart, nil, nil)
	if err != nil {
		return event.LifecycleResponse{}, err
	}
	return event.LifecycleResponse{Event: event.NewEventResponse(started)}, nil
}

// MarkCompleted implements event.EventService.
func (s *EventServiceImpl) MarkCompleted(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	completed, err := s.apply(ctx, eventID, event.ActionComplete, nil, nil)
	if err != nil {
		return event.LifecycleResponse{}, err
	}
	return event.LifecycleResponse{Event: event.NewEventResponse(completed)}, nil
}

// MarkPostponed implements event.EventService.
func (s *EventServiceImpl) MarkPostponed(ctx context.Context, req event.InterruptEventRequest) (event.LifecycleResponse, error) {
	return s.interrupt(ctx, req, event.ActionPostpone)
}

// MarkCancelled implements event.EventService.
func (s *EventServiceImpl) MarkCancelled(ctx context.Context, req event.InterruptEventRequest) (event.LifecycleResponse, error) {
	return s.interrupt(ctx, req, event.ActionCancel)
}

func (s *EventServiceImpl) interrupt(ctx context.Context, req event.InterruptEventRequest, action event.Action) (event.LifecycleResponse, error) {
	if err := req.Validate(); err != nil {
		return event.LifecycleResponse{}, err
	}

	reason := strings.TrimSpace(req.ReasonPostponedCancelled)
	interrupted, err := s.apply(ctx, req.EventID, action, nil, &reason)
	if err != nil {
		return event.LifecycleResponse{}, err
	}

	summary := s.notifier.Notify(context.WithoutCancel(ctx), NotifyInterruption, interrupted)
	return event.LifecycleResponse{Event: event.NewEventResponse(interrupted), Notification: &summary}, nil
}

func (s *EventServiceImpl) apply(ctx context.Context, eventID string, action event.Action, remarks, reason *string) (event.Event, error) {
	current, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	return s.transition(ctx, current, action, remarks, reason)
}

// transition writes the next state conditionally on the state current was read in.
func (s *EventServiceImpl) transition(ctx context.Context, current event.Event, action event.Action, remarks, reason *string) (event.Event, error) {
	from := current.State()
	to, err := event.NextState(from, action)
	if err != nil {
		return event.Event{}, err
	}

	updated, err := s.eventRepo.ApplyTransition(ctx, current.EventID, event.Transition{
		From:    from,
		To:      to,
		Remarks: remarks,
		Reason:  reason,
	})
	if errors.Is(err, event.ErrStaleState) {
		latest, getErr := s.eventRepo.GetByID(ctx, current.EventID)
		if getErr != nil {
			return event.Event{}, getErr
		}
		if _, err := event.NextState(latest.State(), action); err != nil {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("%w: event changed while processing, retry", event.ErrInvalidTransition)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to %s event: %w", action, err)
	}

	slog.Info("event status changed", "event_id", updated.EventID, "action", action, "from", from, "to", to)
	return updated, nil
}

func (s *EventServiceImpl) resolveRecipients(ctx context.Context, p event.Presence, manual []string) ([]string, error) {
	if len(GroupsFor(p)) == 0 {
		return Resolve(Directory{}, p, manual), nil
	}

	users, err := s.users.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitee directory: %w", err)
	}
	return Resolve(NewDirectory(users), p, manual), nil
}

func (s *EventServiceImpl) checkConflicts(ctx context.Context, c Candidate) error {
	existing, err := s.eventRepo.ListActiveBetween(ctx, c.DateStart, c.DateEnd)
	if err != nil {
		return fmt.Errorf("failed to load calendar: %w", err)
	}

	conflicts, err := DetectConflicts(c, existing)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &event.ConflictError{Conflicts: conflicts}
	}
	return nil
}

func (s *EventServiceImpl) checkNotPast(start time.Time) error {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return validator.ValidationErrors{{Field: "eventDate", Message: "eventDate must not be in the past"}}
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func NewEventService(
	txManager TxManager,
	eventRepo event.EventRepository,
	users DirectoryReader,
	notifier *Notifier,
	now func() time.Time,
) event.EventService {
	if now == nil {
		now = time.Now
	}
	return &EventServiceImpl{
		txManager: txManager,
		eventRepo: eventRepo,
		users:     users,
		idGen:     NewIDGenerator(eventRepo, now),
		notifier:  notifier,
		now:       now,
	}
}
