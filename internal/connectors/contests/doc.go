// Package contests provides shared infrastructure for contest platform
// adapters.
//
// Each platform lives in its own subpackage (leetcode, codechef,
// codeforces, mentorpick) and implements [driven.ContestSource]. This
// package supplies what they have in common:
//
//   - Client: one-shot JSON requests with a 30 second bound and no retries
//   - Collector: strict listing mapping that drops malformed and past entries
//   - Options: endpoint and clock overrides for tests
//
// # Failure Model
//
// A platform that cannot be reached, answers with a non-200 status, or
// returns an undecodable body yields an error wrapping
// [domain.ErrSourceFetch]. A single malformed listing never fails the
// fetch; it is logged and skipped.
//
// The registry subpackage assembles the full set of adapters.
package contests
