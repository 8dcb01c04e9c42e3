package driving

import (
	"context"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// UserSyncer runs one synchronisation pass for a single user.
type UserSyncer interface {
	// SyncUser fetches upcoming contests and writes missing reminders to
	// the user's calendar.
	//
	// Errors: domain.ErrNotFound for an unknown user, domain.ErrAuthRequired
	// when no refresh token is stored, domain.ErrAuthExpired when the
	// provider rejected the refresh token (the stored token is cleared).
	SyncUser(ctx context.Context, userID string) (domain.SyncOutcome, error)
}

// FleetSyncer synchronises every user that holds a refresh token.
type FleetSyncer interface {
	// SyncAll runs SyncUser for each syncable user. Per-user failures are
	// recorded in the summary and never abort the batch. An error is
	// returned only when the user listing itself fails.
	SyncAll(ctx context.Context) (domain.FleetSummary, error)
}

// ContestLister previews upcoming contests without touching any calendar.
type ContestLister interface {
	// UpcomingContests returns the merged, time-ordered contest list and
	// the per-platform fetch results.
	UpcomingContests(ctx context.Context) ([]domain.ContestRecord, []domain.SourceResult)
}

// UserDirectory exposes stored users to operators.
type UserDirectory interface {
	// ListUsers returns every stored user.
	ListUsers(ctx context.Context) ([]domain.UserCredential, error)

	// RegisterConsent stores the refresh token obtained from a consent
	// handshake, creating the user when needed.
	RegisterConsent(ctx context.Context, profile domain.UserProfile, refreshToken string) error
}
