package contests

import (
	"errors"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// Options configures a platform adapter.
type Options struct {
	// Endpoint is the listing URL. Overridden in tests.
	Endpoint string

	// Now is the clock used for the upcoming filter.
	Now func() time.Time
}

// Option mutates Options.
type Option func(*Options)

// WithEndpoint overrides the listing URL.
func WithEndpoint(url string) Option {
	return func(o *Options) { o.Endpoint = url }
}

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

// ApplyOptions returns Options with defaults applied.
func ApplyOptions(defaultEndpoint string, opts ...Option) Options {
	o := Options{Endpoint: defaultEndpoint, Now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Collector accumulates mapped listings, dropping malformed and past ones.
type Collector struct {
	platform domain.Platform
	now      time.Time
	records  []domain.ContestRecord
	skipped  int
}

// NewCollector creates a collector that keeps contests starting after now.
func NewCollector(platform domain.Platform, now time.Time) *Collector {
	return &Collector{platform: platform, now: now}
}

// Add records the mapping result of listing index.
func (c *Collector) Add(index int, rec domain.ContestRecord, err error) {
	if err != nil {
		c.skipped++
		var recErr *domain.RecordError
		if !errors.As(err, &recErr) {
			err = &domain.RecordError{Platform: c.platform, Index: index, Err: err}
		}
		logger.Debug("%s: skipping listing: %v", c.platform, err)
		return
	}
	if !rec.IsUpcoming(c.now) {
		return
	}
	rec.Platform = c.platform
	rec.Start = rec.Start.UTC()
	c.records = append(c.records, rec)
}

// Records returns the kept contests in listing order.
func (c *Collector) Records() []domain.ContestRecord {
	if c.skipped > 0 {
		logger.Warn("%s: skipped %d malformed listings", c.platform, c.skipped)
	}
	logger.Debug("Found %d upcoming %s contests", len(c.records), c.platform)
	return c.records
}
