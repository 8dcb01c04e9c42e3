package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// Ensure FleetSync implements the interface.
var _ driving.FleetSyncer = (*FleetSync)(nil)

// FleetSync runs the per-user orchestrator for every user holding a
// refresh token. One user's failure never stops the others.
type FleetSync struct {
	users       driven.UserStore
	syncer      driving.UserSyncer
	concurrency int
}

// NewFleetSync creates a fleet driver. concurrency <= 1 processes users
// sequentially.
func NewFleetSync(users driven.UserStore, syncer driving.UserSyncer, concurrency int) *FleetSync {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FleetSync{
		users:       users,
		syncer:      syncer,
		concurrency: concurrency,
	}
}

// SyncAll implements driving.FleetSyncer.
func (f *FleetSync) SyncAll(ctx context.Context) (domain.FleetSummary, error) {
	summary := domain.FleetSummary{Failures: make(map[string]string)}

	users, err := f.users.ListSyncable(ctx)
	if err != nil {
		return summary, fmt.Errorf("list syncable users: %w", err)
	}

	logger.Info("Fleet sync starting for %d users", len(users))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(f.concurrency)

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		userID := user.UserID
		g.Go(func() error {
			outcome, err := f.syncOne(ctx, userID)

			mu.Lock()
			defer mu.Unlock()
			summary.UsersProcessed++
			if err != nil {
				summary.Failed++
				summary.Failures[userID] = domain.ErrorKind(err)
				logger.Error("Error syncing user %s: %v", userID, err)
				return nil
			}
			summary.Succeeded++
			summary.EventsAdded += outcome.EventsAdded
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Processed %d users: %d succeeded, %d failed, %d reminders added",
		summary.UsersProcessed, summary.Succeeded, summary.Failed, summary.EventsAdded)
	return summary, nil
}

// syncOne isolates a panicking user pass.
func (f *FleetSync) syncOne(ctx context.Context, userID string) (outcome domain.SyncOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync user %s: panic: %v", userID, r)
		}
	}()
	return f.syncer.SyncUser(ctx, userID)
}
