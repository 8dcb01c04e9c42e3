package driven

import (
	"context"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// ContestSource fetches upcoming contests from a single platform.
// Implementations perform one outbound request per Fetch with no retries,
// drop malformed listings, and return only contests that start after now.
type ContestSource interface {
	// Platform identifies the provider.
	Platform() domain.Platform

	// Fetch returns the platform's upcoming contests.
	// Network, status and decoding failures return an error that wraps
	// domain.ErrSourceFetch.
	Fetch(ctx context.Context) ([]domain.ContestRecord, error)
}
