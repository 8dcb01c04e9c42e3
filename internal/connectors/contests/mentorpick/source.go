// Package mentorpick reads scheduled contests from MentorPick's public API.
package mentorpick

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Endpoint lists the first page of scheduled public contests.
const Endpoint = "https://mentorpick.com/api/contest/public?title=&status=scheduled&limit=50&page=1&type=null"

// startLayout is the millisecond UTC timestamp MentorPick returns.
const startLayout = "2006-01-02T15:04:05.000Z"

// Ensure Source implements the interface.
var _ driven.ContestSource = (*Source)(nil)

// Source fetches MentorPick contests.
type Source struct {
	client *contests.Client
	opts   contests.Options
}

// New creates a MentorPick source.
func New(client *contests.Client, opts ...contests.Option) *Source {
	return &Source{client: client, opts: contests.ApplyOptions(Endpoint, opts...)}
}

// Platform implements driven.ContestSource.
func (s *Source) Platform() domain.Platform {
	return domain.PlatformMentorPick
}

type listing struct {
	Title     string `json:"title" validate:"required"`
	Slug      string `json:"slug" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

type response struct {
	Data []listing `json:"data"`
}

// Fetch implements driven.ContestSource.
func (s *Source) Fetch(ctx context.Context) ([]domain.ContestRecord, error) {
	headers := map[string]string{
		"User-Agent": contests.BrowserUserAgent,
		"Accept":     "application/json, text/plain, */*",
		"Referer":    "https://mentorpick.com/contests/explore/scheduled?mode=null",
		"Origin":     "https://mentorpick.com",
	}

	var resp response
	if err := s.client.GetJSON(ctx, s.opts.Endpoint, headers, &resp); err != nil {
		return nil, domain.NewSourceError(s.Platform(), err)
	}

	col := contests.NewCollector(s.Platform(), s.opts.Now())
	for i, l := range resp.Data {
		rec, err := s.toRecord(l)
		col.Add(i, rec, err)
	}
	return col.Records(), nil
}

func (s *Source) toRecord(l listing) (domain.ContestRecord, error) {
	if err := s.client.Validate(l); err != nil {
		return domain.ContestRecord{}, err
	}
	start, err := parseStart(l.StartTime)
	if err != nil {
		return domain.ContestRecord{}, err
	}
	return domain.ContestRecord{
		Title: l.Title,
		URL:   "https://mentorpick.com/contest/" + l.Slug,
		Start: start,
	}, nil
}

// parseStart accepts the millisecond layout and falls back to RFC 3339.
func parseStart(v string) (time.Time, error) {
	if t, err := time.Parse(startLayout, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start %q: %w", v, err)
	}
	return t.UTC(), nil
}
