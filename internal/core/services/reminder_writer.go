package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/logger"
	"github.com/custodia-labs/contest-reminder/internal/metrics"
)

// DuplicateLookupLimit is the maxResults passed to the calendar title query.
const DuplicateLookupLimit int64 = 10

// ReminderWriter inserts one reminder event per contest into a calendar,
// skipping contests whose reminder already exists there. The remote
// calendar is the only source of truth for what has been written.
type ReminderWriter struct {
	lookupLimit int64
}

// NewReminderWriter creates a write engine.
func NewReminderWriter() *ReminderWriter {
	return &ReminderWriter{lookupLimit: DuplicateLookupLimit}
}

// SyncContests writes missing reminders for contests, in order.
// A failed lookup or insert is logged, recorded and skipped. The pass
// stops between contests when ctx is cancelled.
func (w *ReminderWriter) SyncContests(
	ctx context.Context,
	client driven.CalendarClient,
	contests []domain.ContestRecord,
) (domain.SyncOutcome, []domain.WriteResult) {
	outcome := domain.SyncOutcome{ContestsChecked: len(contests)}
	results := make([]domain.WriteResult, 0, len(contests))

	for _, contest := range contests {
		if err := ctx.Err(); err != nil {
			logger.Warn("Reminder pass cancelled after %d of %d contests", len(results), len(contests))
			break
		}

		res := w.writeOne(ctx, client, contest)
		results = append(results, res)

		switch res.Status {
		case domain.WriteAdded:
			outcome.EventsAdded++
			outcome.AddedContests = append(outcome.AddedContests, contest)
			logger.Debug("Added reminder: %s", contest.ReminderTitle())
		case domain.WriteAlreadySynced:
			logger.Debug("Already synced: %s", contest.ReminderTitle())
		case domain.WriteFailed:
			logger.Warn("Reminder for %q not written: %v", contest.Title, res.Err)
		}
	}

	metrics.AddReminders(outcome.EventsAdded)
	return outcome, results
}

func (w *ReminderWriter) writeOne(
	ctx context.Context,
	client driven.CalendarClient,
	contest domain.ContestRecord,
) domain.WriteResult {
	title := contest.ReminderTitle()

	titles, err := client.FindEventTitles(ctx, title, w.lookupLimit)
	if err != nil {
		metrics.ObserveCalendarError("lookup")
		return domain.WriteResult{
			Contest: contest,
			Status:  domain.WriteFailed,
			Err:     fmt.Errorf("%w: lookup %q: %w", domain.ErrCalendarWrite, title, err),
		}
	}

	for _, existing := range titles {
		if existing == title {
			return domain.WriteResult{Contest: contest, Status: domain.WriteAlreadySynced}
		}
	}

	if err := client.InsertEvent(ctx, contest.Reminder()); err != nil {
		metrics.ObserveCalendarError("insert")
		return domain.WriteResult{
			Contest: contest,
			Status:  domain.WriteFailed,
			Err:     fmt.Errorf("%w: insert %q: %w", domain.ErrCalendarWrite, title, err),
		}
	}

	return domain.WriteResult{Contest: contest, Status: domain.WriteAdded}
}
