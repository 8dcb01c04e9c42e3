package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
	"github.com/custodia-labs/contest-reminder/internal/metrics"
)

// Ensure Aggregator implements the interface.
var _ driving.ContestLister = (*Aggregator)(nil)

// Aggregator merges the output of every contest source into one
// chronologically ordered list. A failing source contributes nothing.
type Aggregator struct {
	sources     []driven.ContestSource
	parallelism int
}

// NewAggregator creates an aggregator over sources, fetched in the given order.
func NewAggregator(sources ...driven.ContestSource) *Aggregator {
	return &Aggregator{
		sources:     sources,
		parallelism: len(sources),
	}
}

// WithParallelism bounds the number of concurrent fetches. n <= 0 means one
// fetch per source.
func (a *Aggregator) WithParallelism(n int) *Aggregator {
	if n <= 0 {
		n = len(a.sources)
	}
	a.parallelism = n
	return a
}

// Sources returns the configured sources.
func (a *Aggregator) Sources() []driven.ContestSource {
	return a.sources
}

// UpcomingContests implements driving.ContestLister.
func (a *Aggregator) UpcomingContests(ctx context.Context) ([]domain.ContestRecord, []domain.SourceResult) {
	return a.Aggregate(ctx)
}

// Aggregate fetches every source, concatenates results in source order and
// stable-sorts by start time. It never fails; per-source errors are
// reported in the returned results.
func (a *Aggregator) Aggregate(ctx context.Context) ([]domain.ContestRecord, []domain.SourceResult) {
	results := make([]domain.SourceResult, len(a.sources))

	g := new(errgroup.Group)
	if a.parallelism > 0 {
		g.SetLimit(a.parallelism)
	}
	for i, src := range a.sources {
		g.Go(func() error {
			results[i] = fetchSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.ContestRecord
	for _, r := range results {
		metrics.ObserveSourceFetch(string(r.Platform), len(r.Contests), r.Err)
		if r.Err != nil {
			logger.Warn("%s: fetch failed, skipping: %v", r.Platform, r.Err)
			continue
		}
		logger.Debug("Found %d upcoming %s contests", len(r.Contests), r.Platform)
		merged = append(merged, r.Contests...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})

	return merged, results
}

// fetchSource runs one source and converts a panic into a fetch error.
func fetchSource(ctx context.Context, src driven.ContestSource) (res domain.SourceResult) {
	res.Platform = src.Platform()
	defer func() {
		if r := recover(); r != nil {
			res.Contests = nil
			res.Err = domain.NewSourceError(res.Platform, fmt.Errorf("panic: %v", r))
		}
	}()

	contests, err := src.Fetch(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Contests = contests
	return res
}
