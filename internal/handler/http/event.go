package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/middleware"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EventHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	PreviewRecipients(w http.ResponseWriter, r *http.Request)

	Approve(w http.ResponseWriter, r *http.Request)
	Decline(w http.ResponseWriter, r *http.Request)
	MarkInProgress(w http.ResponseWriter, r *http.Request)
	MarkCompleted(w http.ResponseWriter, r *http.Request)
	MarkPostponed(w http.ResponseWriter, r *http.Request)
	MarkCancelled(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandlerImpl{eventService: eventService}
}

// Create implements EventHandler
func (h *eventHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create event decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.eventService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event created successfully", created)
}

// Update implements EventHandler
func (h *eventHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req event.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update event decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EventID = chi.URLParam(r, "eventId")

	updated, err := h.eventService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event updated successfully", updated)
}

// Get implements EventHandler
func (h *eventHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.eventService.Get(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// List implements EventHandler. Query: filter, date.
func (h *eventHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := event.ListEventsRequest{
		Filter: event.Filter(r.URL.Query().Get("filter")),
		Date:   r.URL.Query().Get("date"),
	}

	events, err := h.eventService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, events, &response.Meta{Count: len(events)})
}

// Delete implements EventHandler
func (h *eventHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), chi.URLParam(r, "eventId")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// PreviewRecipients implements EventHandler
func (h *eventHandlerImpl) PreviewRecipients(w http.ResponseWriter, r *http.Request) {
	var req event.RecipientPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := h.eventService.PreviewRecipients(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// Approve implements EventHandler
func (h *eventHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.eventService.Approve(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event approved", result)
}

// Decline implements EventHandler
func (h *eventHandlerImpl) Decline(w http.ResponseWriter, r *http.Request) {
	var req event.DeclineEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EventID = chi.URLParam(r, "eventId")

	result, err := h.eventService.Decline(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event declined", result)
}

// MarkInProgress implements EventHandler
func (h *eventHandlerImpl) MarkInProgress(w http.ResponseWriter, r *http.Request) {
	result, err := h.eventService.MarkInProgress(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event marked as in progress", result)
}

// MarkCompleted implements EventHandler
func (h *eventHandlerImpl) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	result, err := h.eventService.MarkCompleted(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event marked as completed", result)
}

// MarkPostponed implements EventHandler
func (h *eventHandlerImpl) MarkPostponed(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInterrupt(w, r)
	if !ok {
		return
	}

	result, err := h.eventService.MarkPostponed(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event postponed", result)
}

// MarkCancelled implements EventHandler
func (h *eventHandlerImpl) MarkCancelled(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInterrupt(w, r)
	if !ok {
		return
	}

	result, err := h.eventService.MarkCancelled(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event cancelled", result)
}

func decodeInterrupt(w http.ResponseWriter, r *http.Request) (event.InterruptEventRequest, bool) {
	var req event.InterruptEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	req.EventID = chi.URLParam(r, "eventId")
	return req, true
}
