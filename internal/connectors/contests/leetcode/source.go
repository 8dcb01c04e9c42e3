// Package leetcode reads upcoming contests from LeetCode's GraphQL API.
package leetcode

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Endpoint is LeetCode's GraphQL endpoint.
const Endpoint = "https://leetcode.com/graphql"

const allContestsQuery = `query allContests { allContests { title titleSlug startTime duration } }`

// Ensure Source implements the interface.
var _ driven.ContestSource = (*Source)(nil)

// Source fetches LeetCode contests.
type Source struct {
	client *contests.Client
	opts   contests.Options
}

// New creates a LeetCode source.
func New(client *contests.Client, opts ...contests.Option) *Source {
	return &Source{client: client, opts: contests.ApplyOptions(Endpoint, opts...)}
}

// Platform implements driven.ContestSource.
func (s *Source) Platform() domain.Platform {
	return domain.PlatformLeetCode
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type listing struct {
	Title     string `json:"title" validate:"required"`
	TitleSlug string `json:"titleSlug" validate:"required"`
	StartTime int64  `json:"startTime" validate:"gt=0"`
	Duration  int64  `json:"duration"`
}

type response struct {
	Data struct {
		AllContests []listing `json:"allContests"`
	} `json:"data"`
}

// Fetch implements driven.ContestSource.
func (s *Source) Fetch(ctx context.Context) ([]domain.ContestRecord, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Referer":      "https://leetcode.com/contest/",
		"Origin":       "https://leetcode.com",
		"User-Agent":   contests.BrowserUserAgent,
	}
	body := graphQLRequest{
		OperationName: "allContests",
		Variables:     map[string]any{},
		Query:         allContestsQuery,
	}

	var resp response
	if err := s.client.PostJSON(ctx, s.opts.Endpoint, headers, body, &resp); err != nil {
		return nil, domain.NewSourceError(s.Platform(), err)
	}

	col := contests.NewCollector(s.Platform(), s.opts.Now())
	for i, l := range resp.Data.AllContests {
		rec, err := s.toRecord(l)
		col.Add(i, rec, err)
	}
	return col.Records(), nil
}

func (s *Source) toRecord(l listing) (domain.ContestRecord, error) {
	if err := s.client.Validate(l); err != nil {
		return domain.ContestRecord{}, err
	}
	return domain.ContestRecord{
		Title: l.Title,
		URL:   fmt.Sprintf("https://leetcode.com/contest/%s/", l.TitleSlug),
		Start: time.Unix(l.StartTime, 0).UTC(),
	}, nil
}
