package http

import (
	"context"
	"net/http"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/middleware"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/response"
)

// AdminHandler serves the user management page. Routes are mounted behind
// middleware.AdminOnly.
type AdminHandler interface {
	Find(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Promote(w http.ResponseWriter, r *http.Request)
	Demote(w http.ResponseWriter, r *http.Request)
	Decline(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	userService user.UserService
}

func NewAdminHandler(userService user.UserService) AdminHandler {
	return &adminHandlerImpl{userService: userService}
}

// Find implements AdminHandler
func (h *adminHandlerImpl) Find(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), user.Filter(r.URL.Query().Get("filter")))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, users, &response.Meta{Count: len(users)})
}

// Approve implements AdminHandler
func (h *adminHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, "User approved", h.userService.Approve)
}

// Promote implements AdminHandler
func (h *adminHandlerImpl) Promote(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, "User promoted to admin", h.userService.Promote)
}

// Demote implements AdminHandler
func (h *adminHandlerImpl) Demote(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, "User demoted", h.userService.Demote)
}

// Decline implements AdminHandler
func (h *adminHandlerImpl) Decline(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.userService.Decline(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

type userUpdateFunc func(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error)

func (h *adminHandlerImpl) update(w http.ResponseWriter, r *http.Request, message string, fn userUpdateFunc) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	updated, err := fn(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, updated)
}
