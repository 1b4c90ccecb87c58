package event

import (
	"context"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
)

type EventService interface {
	Create(ctx context.Context, actor user.Actor, req CreateEventRequest) (EventResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateEventRequest) (EventResponse, error)
	Get(ctx context.Context, eventID string) (EventResponse, error)
	List(ctx context.Context, req ListEventsRequest) ([]EventResponse, error)
	Delete(ctx context.Context, eventID string) error
	PreviewRecipients(ctx context.Context, req RecipientPreviewRequest) (RecipientPreviewResponse, error)

	Approve(ctx context.Context, eventID string) (LifecycleResponse, error)
	Decline(ctx context.Context, req DeclineEventRequest) (LifecycleResponse, error)
	MarkInProgress(ctx context.Context, eventID string) (LifecycleResponse, error)
	MarkCompleted(ctx context.Context, eventID string) (LifecycleResponse, error)
	MarkPostponed(ctx context.Context, req InterruptEventRequest) (LifecycleResponse, error)
	MarkCancelled(ctx context.Context, req InterruptEventRequest) (LifecycleResponse, error)
}
