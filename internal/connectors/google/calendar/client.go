package calendar

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/contest-reminder/internal/connectors/google"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CalendarClient = (*Client)(nil)

// Client is one user's calendar handle.
type Client struct {
	svc         *calendar.Service
	cfg         Config
	rateLimiter *google.RateLimiter
}

// NewClient wraps an authenticated Calendar service.
func NewClient(svc *calendar.Service, cfg Config, limiter *google.RateLimiter) *Client {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.ServiceCalendar)
	}
	return &Client{svc: svc, cfg: cfg, rateLimiter: limiter}
}

// FindEventTitles implements driven.CalendarClient.
func (c *Client) FindEventTitles(ctx context.Context, query string, maxResults int64) ([]string, error) {
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.svc.Events.List(c.cfg.CalendarID).
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.handleError("list events", err)
	}
	return EventTitles(resp.Items), nil
}

// InsertEvent implements driven.CalendarClient.
func (c *Client) InsertEvent(ctx context.Context, event domain.ReminderEvent) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	_, err := c.svc.Events.Insert(c.cfg.CalendarID, ReminderToEvent(event)).
		Context(ctx).
		Do()
	if err != nil {
		return c.handleError("insert event", err)
	}
	return nil
}

// callContext applies the per-call timeout. The generated Calendar service
// builds its own transport, so a client-level timeout never reaches it.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Client) handleError(op string, err error) error {
	if google.IsRateLimited(err) {
		c.rateLimiter.RecordRateLimitError(google.RetryAfter(err))
	}
	return fmt.Errorf("%s: %w", op, google.WrapError(err))
}
