package postgresql

import (
	"testing"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/database"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &database.DB{Pool: mock}, mock
}

var eventRowColumns = []string{
	"event_id", "event_name", "event_host", "event_location", "event_description", "meeting_link",
	"event_date", "event_date_end", "sched_start", "sched_end", "invited_emails",
	"is_approved", "event_remarks", "approved_event_status", "reason_postponed_cancelled",
	"need_rd", "need_ard", "need_lgmed", "need_lgcdd", "need_ord", "need_fad", "need_pdmu", "need_rictu", "need_legal",
	"created_by", "created_at", "updated_at",
}

type eventRowOpts struct {
	approved bool
	status   *event.Status
	remarks  *string
	reason   *string
}

func addEventRow(rows *pgxmock.Rows, id string, opts eventRowOpts) *pgxmock.Rows {
	now := time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "Provincial Assessment", event.HostLGMED, "Conference Room A", "", (*string)(nil),
		date, date, "09:00", "11:00", []string{"staff@dilg.gov.ph"},
		opts.approved, opts.remarks, opts.status, opts.reason,
		true, false, true, false, false, false, false, false, false,
		"Maria Santos", now, now,
	)
}

func eventRows(id string, opts eventRowOpts) *pgxmock.Rows {
	return addEventRow(pgxmock.NewRows(eventRowColumns), id, opts)
}

// anyArgs matches n positional arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
