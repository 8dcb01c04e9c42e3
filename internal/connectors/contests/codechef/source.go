// Package codechef reads upcoming contests from CodeChef's contest list API.
package codechef

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Endpoint lists all CodeChef contests.
const Endpoint = "https://www.codechef.com/api/list/contests/all"

// Ensure Source implements the interface.
var _ driven.ContestSource = (*Source)(nil)

// Source fetches CodeChef contests.
type Source struct {
	client *contests.Client
	opts   contests.Options
}

// New creates a CodeChef source.
func New(client *contests.Client, opts ...contests.Option) *Source {
	return &Source{client: client, opts: contests.ApplyOptions(Endpoint, opts...)}
}

// Platform implements driven.ContestSource.
func (s *Source) Platform() domain.Platform {
	return domain.PlatformCodeChef
}

type listing struct {
	Code      string `json:"contest_code" validate:"required"`
	Name      string `json:"contest_name" validate:"required"`
	StartDate string `json:"contest_start_date_iso" validate:"required"`
}

type response struct {
	FutureContests  []listing `json:"future_contests"`
	PresentContests []listing `json:"present_contests"`
}

// Fetch implements driven.ContestSource.
// Running contests are read too; the upcoming filter drops them unless
// their start is still ahead.
func (s *Source) Fetch(ctx context.Context) ([]domain.ContestRecord, error) {
	headers := map[string]string{
		"User-Agent": "Mozilla/5.0",
		"Referer":    "https://www.codechef.com/contests",
		"Origin":     "https://www.codechef.com",
		"Accept":     "application/json",
	}

	var resp response
	if err := s.client.GetJSON(ctx, s.opts.Endpoint, headers, &resp); err != nil {
		return nil, domain.NewSourceError(s.Platform(), err)
	}

	listings := make([]listing, 0, len(resp.FutureContests)+len(resp.PresentContests))
	listings = append(listings, resp.FutureContests...)
	listings = append(listings, resp.PresentContests...)

	col := contests.NewCollector(s.Platform(), s.opts.Now())
	for i, l := range listings {
		rec, err := s.toRecord(l)
		col.Add(i, rec, err)
	}
	return col.Records(), nil
}

func (s *Source) toRecord(l listing) (domain.ContestRecord, error) {
	if err := s.client.Validate(l); err != nil {
		return domain.ContestRecord{}, err
	}
	start, err := time.Parse(time.RFC3339, l.StartDate)
	if err != nil {
		return domain.ContestRecord{}, fmt.Errorf("parse start %q: %w", l.StartDate, err)
	}
	return domain.ContestRecord{
		Title: l.Name,
		URL:   "https://www.codechef.com/" + l.Code,
		Start: start.UTC(),
	}, nil
}
