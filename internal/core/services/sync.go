package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
	"github.com/custodia-labs/contest-reminder/internal/metrics"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.UserSyncer = (*SyncOrchestrator)(nil)

// SyncOrchestrator runs one synchronisation pass for a single user:
// load credentials, refresh the access token, aggregate contests and
// write missing reminders.
type SyncOrchestrator struct {
	users      driven.UserStore
	opener     driven.CalendarOpener
	aggregator *Aggregator
	writer     *ReminderWriter
	now        func() time.Time

	// Users with a pass in flight. A second pass for the same user would
	// race the duplicate check against the first one's inserts.
	mu          sync.Mutex
	activeSyncs map[string]struct{}
}

// NewSyncOrchestrator creates a per-user sync orchestrator.
func NewSyncOrchestrator(
	users driven.UserStore,
	opener driven.CalendarOpener,
	aggregator *Aggregator,
	writer *ReminderWriter,
) *SyncOrchestrator {
	if writer == nil {
		writer = NewReminderWriter()
	}
	return &SyncOrchestrator{
		users:       users,
		opener:      opener,
		aggregator:  aggregator,
		writer:      writer,
		now:         time.Now,
		activeSyncs: make(map[string]struct{}),
	}
}

// WithClock overrides the clock used for LastSyncedAt.
func (o *SyncOrchestrator) WithClock(now func() time.Time) *SyncOrchestrator {
	o.now = now
	return o
}

// SyncUser implements driving.UserSyncer.
func (o *SyncOrchestrator) SyncUser(ctx context.Context, userID string) (domain.SyncOutcome, error) {
	start := time.Now()
	outcome, err := o.syncUser(ctx, userID)
	metrics.ObserveUserSync(domain.ErrorKind(err), start)
	return outcome, err
}

//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *SyncOrchestrator) syncUser(ctx context.Context, userID string) (domain.SyncOutcome, error) {
	// 1. Load credentials
	user, err := o.users.Get(ctx, userID)
	if err != nil {
		return domain.SyncOutcome{}, fmt.Errorf("get user: %w", err)
	}
	if !user.HasRefreshToken() {
		return domain.SyncOutcome{}, fmt.Errorf("user %s: %w", userID, domain.ErrAuthRequired)
	}

	// 2. One pass per user at a time
	if !o.acquire(userID) {
		return domain.SyncOutcome{}, fmt.Errorf("user %s: %w", userID, domain.ErrSyncInProgress)
	}
	defer o.release(userID)

	logger.Debug("Starting sync for user %s", userID)

	// 3. Exchange the refresh token for a calendar handle
	client, rotated, err := o.opener.Open(ctx, user.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			if clearErr := o.users.ClearRefreshToken(ctx, userID); clearErr != nil {
				logger.Error("clear refresh token for %s: %v", userID, clearErr)
			}
			logger.Warn("Refresh token for user %s was rejected and has been cleared", userID)
		}
		return domain.SyncOutcome{}, fmt.Errorf("open calendar: %w", err)
	}

	// 4. Persist a rotated refresh token
	if rotated != "" && rotated != user.RefreshToken {
		if err := o.users.UpdateRefreshToken(ctx, userID, rotated); err != nil {
			logger.Warn("persist rotated refresh token for %s: %v", userID, err)
		}
	}

	// 5. Aggregate and write
	contests, _ := o.aggregator.Aggregate(ctx)
	outcome, _ := o.writer.SyncContests(ctx, client, contests)
	if err := ctx.Err(); err != nil {
		return outcome, fmt.Errorf("sync user %s: %w", userID, err)
	}

	// 6. Record success
	if err := o.users.MarkSynced(ctx, userID, o.now().UTC()); err != nil {
		logger.Warn("mark user %s synced: %v", userID, err)
	}

	logger.Info("Sync complete for user %s: %d of %d contests added",
		userID, outcome.EventsAdded, outcome.ContestsChecked)
	return outcome, nil
}

func (o *SyncOrchestrator) acquire(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.activeSyncs[userID]; busy {
		return false
	}
	o.activeSyncs[userID] = struct{}{}
	return true
}

func (o *SyncOrchestrator) release(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, userID)
}

// isSyncing reports whether a pass is in flight for userID.
func (o *SyncOrchestrator) isSyncing(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, busy := o.activeSyncs[userID]
	return busy
}
