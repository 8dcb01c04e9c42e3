// Package registry builds the set of contest sources the sync engine reads.
package registry

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests/codechef"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests/codeforces"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests/leetcode"
	"github.com/custodia-labs/contest-reminder/internal/connectors/contests/mentorpick"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Factory creates a source bound to a shared client.
type Factory func(client *contests.Client, opts ...contests.Option) driven.ContestSource

var factories = map[domain.Platform]Factory{
	domain.PlatformLeetCode: func(c *contests.Client, opts ...contests.Option) driven.ContestSource {
		return leetcode.New(c, opts...)
	},
	domain.PlatformCodeChef: func(c *contests.Client, opts ...contests.Option) driven.ContestSource {
		return codechef.New(c, opts...)
	},
	domain.PlatformCodeforces: func(c *contests.Client, opts ...contests.Option) driven.ContestSource {
		return codeforces.New(c, opts...)
	},
	domain.PlatformMentorPick: func(c *contests.Client, opts ...contests.Option) driven.ContestSource {
		return mentorpick.New(c, opts...)
	},
}

// All returns one source per supported platform in domain.AllPlatforms order.
func All(client *contests.Client) []driven.ContestSource {
	sources := make([]driven.ContestSource, 0, len(factories))
	for _, p := range domain.AllPlatforms() {
		sources = append(sources, factories[p](client))
	}
	return sources
}

// Select returns sources for the named platforms. An empty list selects all.
func Select(client *contests.Client, names []string) ([]driven.ContestSource, error) {
	if len(names) == 0 {
		return All(client), nil
	}
	seen := make(map[domain.Platform]bool, len(names))
	sources := make([]driven.ContestSource, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q: %w", name, domain.ErrInvalidInput)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		sources = append(sources, factories[p](client))
	}
	return sources, nil
}

func lookup(name string) (domain.Platform, bool) {
	for _, p := range domain.AllPlatforms() {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}
