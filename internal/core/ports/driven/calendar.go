package driven

import (
	"context"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// CalendarClient is an authenticated handle on one user's calendar.
// Handles are built per sync pass and never stored.
type CalendarClient interface {
	// FindEventTitles returns the titles of events matching a free-text
	// query, at most maxResults of them.
	FindEventTitles(ctx context.Context, query string, maxResults int64) ([]string, error)

	// InsertEvent creates a reminder event.
	InsertEvent(ctx context.Context, event domain.ReminderEvent) error
}

// CalendarOpener exchanges a refresh token for a CalendarClient.
type CalendarOpener interface {
	// Open refreshes the access token and returns a calendar handle.
	// rotated is the new refresh token when the provider issued one,
	// or empty when the stored token remains valid.
	// A rejected refresh token returns an error wrapping domain.ErrAuthExpired.
	// Transient failures wrap domain.ErrTokenRefreshFailed.
	Open(ctx context.Context, refreshToken string) (client CalendarClient, rotated string, err error)
}
