// Package codeforces reads upcoming contests from the Codeforces API.
package codeforces

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Endpoint is the Codeforces contest.list method.
const Endpoint = "https://codeforces.com/api/contest.list"

// phaseBefore marks a contest that has not started.
const phaseBefore = "BEFORE"

// defaultName is used when a listing has no name.
const defaultName = "Unknown Contest"

// Ensure Source implements the interface.
var _ driven.ContestSource = (*Source)(nil)

// Source fetches Codeforces contests.
type Source struct {
	client *contests.Client
	opts   contests.Options
}

// New creates a Codeforces source.
func New(client *contests.Client, opts ...contests.Option) *Source {
	return &Source{client: client, opts: contests.ApplyOptions(Endpoint, opts...)}
}

// Platform implements driven.ContestSource.
func (s *Source) Platform() domain.Platform {
	return domain.PlatformCodeforces
}

type listing struct {
	ID               int64  `json:"id" validate:"gt=0"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds int64  `json:"startTimeSeconds" validate:"gt=0"`
}

type response struct {
	Status  string    `json:"status"`
	Comment string    `json:"comment"`
	Result  []listing `json:"result"`
}

// Fetch implements driven.ContestSource.
func (s *Source) Fetch(ctx context.Context) ([]domain.ContestRecord, error) {
	var resp response
	if err := s.client.GetJSON(ctx, s.opts.Endpoint, nil, &resp); err != nil {
		return nil, domain.NewSourceError(s.Platform(), err)
	}
	if resp.Status != "OK" {
		return nil, domain.NewSourceError(s.Platform(),
			fmt.Errorf("api status %q: %s", resp.Status, resp.Comment))
	}

	col := contests.NewCollector(s.Platform(), s.opts.Now())
	for i, l := range resp.Result {
		if l.Phase != phaseBefore {
			continue
		}
		rec, err := s.toRecord(l)
		col.Add(i, rec, err)
	}
	return col.Records(), nil
}

func (s *Source) toRecord(l listing) (domain.ContestRecord, error) {
	if err := s.client.Validate(l); err != nil {
		return domain.ContestRecord{}, err
	}
	name := l.Name
	if name == "" {
		name = defaultName
	}
	return domain.ContestRecord{
		Title: name,
		URL:   fmt.Sprintf("https://codeforces.com/contest/%d", l.ID),
		Start: time.Unix(l.StartTimeSeconds, 0).UTC(),
	}, nil
}
