package event

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

type NotificationKind string

const (
	NotifyInvitation   NotificationKind = "invitation"
	NotifyInterruption NotificationKind = "interruption"
)

// Notifier mails every invitee of an event. Send failures are collected and
// logged; they never fail the batch.
type Notifier struct {
	mailer      email.EmailService
	concurrency int
}

func NewNotifier(mailer email.EmailService, concurrency int) *Notifier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Notifier{mailer: mailer, concurrency: concurrency}
}

func (n *Notifier) Notify(ctx context.Context, kind NotificationKind, ev event.Event) event.NotificationSummary {
	data := MailData(ev)
	send := n.mailer.SendEventInvitation
	if kind == NotifyInterruption {
		send = n.mailer.SendEventInterruption
	}

	var (
		mu     sync.Mutex
		failed []string
	)

	var g errgroup.Group
	g.SetLimit(n.concurrency)

	for _, to := range ev.InvitedEmails {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = send(to, data)
			}
			if err != nil {
				slog.Error("event notification failed", "event_id", ev.EventID, "kind", kind, "to", to, "error", err)
				mu.Lock()
				failed = append(failed, to)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := event.NotificationSummary{
		Attempted: len(ev.InvitedEmails),
		Sent:      len(ev.InvitedEmails) - len(failed),
		Failed:    failed,
	}
	slog.Info("event notifications dispatched",
		"event_id", ev.EventID,
		"kind", kind,
		"attempted", summary.Attempted,
		"sent", summary.Sent,
		"failed", len(failed),
	)
	return summary
}

// MailData renders an event into the fields used by notification templates.
func MailData(ev event.Event) email.EventMailData {
	data := email.EventMailData{
		EventID:     ev.EventID,
		EventName:   ev.Name,
		Host:        string(ev.Host),
		CreatedBy:   ev.CreatedBy,
		Date:        formatDateRange(ev),
		Time:        event.Format12h(ev.SchedStart) + " - " + event.Format12h(ev.SchedEnd),
		Location:    ev.Location,
		Description: ev.Description,
		Invitees:    ev.InvitedEmails,
	}
	if ev.MeetingLink != nil {
		data.MeetingLink = strings.TrimSpace(*ev.MeetingLink)
	}
	if ev.ApprovedEventStatus != nil {
		data.Status = string(*ev.ApprovedEventStatus)
	}
	if ev.ReasonPostponedCancelled != nil {
		data.Reason = *ev.ReasonPostponedCancelled
	}
	return data
}

const mailDateLayout = "January 2, 2006"

func formatDateRange(ev event.Event) string {
	start := ev.EventDate.Format(mailDateLayout)
	end := ev.EventDateEnd.Format(mailDateLayout)
	if start == end {
		return start
	}
	return start + " - " + end
}
