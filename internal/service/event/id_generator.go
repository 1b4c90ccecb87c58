package event

import (
	"context"
	"fmt"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
)

// IDGenerator allocates year-scoped sequential event identifiers. Next must
// run inside a transaction so the year lock is held until the insert commits.
type IDGenerator struct {
	repo event.EventRepository
	now  func() time.Time
}

func NewIDGenerator(repo event.EventRepository, now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{repo: repo, now: now}
}

func (g *IDGenerator) Next(ctx context.Context) (string, error) {
	year := g.now().Year()

	if err := g.repo.LockIDSequence(ctx, year); err != nil {
		return "", fmt.Errorf("lock id sequence: %w", err)
	}

	latest, err := g.repo.LatestIDForYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("get latest event id: %w", err)
	}

	return event.NextID(year, latest)
}
