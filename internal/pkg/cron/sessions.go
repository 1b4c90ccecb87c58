package cron

import (
	"context"
	"log/slog"
	"time"
)

// SessionPurger deletes sessions that can no longer be refreshed.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionJobs contains session housekeeping jobs.
type SessionJobs struct {
	purger   SessionPurger
	interval time.Duration
}

func NewSessionJobs(purger SessionPurger, interval time.Duration) *SessionJobs {
	return &SessionJobs{purger: purger, interval: interval}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_sessions", j.interval, j.PurgeExpiredSessions)
}

func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	n, err := j.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Expired sessions purged", "count", n)
	}
	return nil
}
