package domain

import "fmt"

// SyncOutcome summarises one per-user synchronisation pass.
type SyncOutcome struct {
	// EventsAdded is the number of reminder events inserted.
	EventsAdded int

	// ContestsChecked is the number of contests considered.
	ContestsChecked int

	// AddedContests lists the contests that received a new event, in order.
	AddedContests []ContestRecord
}

// Message is the human-readable summary returned to whoever asked for the pass.
func (o SyncOutcome) Message() string {
	return fmt.Sprintf("Sync complete. Added %d new events to your calendar.", o.EventsAdded)
}

// SourceResult is the explicit outcome of fetching one platform.
type SourceResult struct {
	Platform Platform
	Contests []ContestRecord
	Err      error
}

// OK reports whether the fetch succeeded.
func (r SourceResult) OK() bool {
	return r.Err == nil
}

// WriteStatus is the disposition of one contest in a write pass.
type WriteStatus string

// Write statuses.
const (
	WriteAdded         WriteStatus = "added"
	WriteAlreadySynced WriteStatus = "already_synced"
	WriteFailed        WriteStatus = "failed"
)

// WriteResult is the explicit outcome of writing one contest.
type WriteResult struct {
	Contest ContestRecord
	Status  WriteStatus
	Err     error
}

// FleetSummary reports the result of a batch run over all syncable users.
type FleetSummary struct {
	// UsersProcessed is the number of users attempted.
	UsersProcessed int

	// Succeeded is the number of users synchronised without error.
	Succeeded int

	// Failed is the number of users whose sync failed.
	Failed int

	// EventsAdded is the total number of events inserted across users.
	EventsAdded int

	// Failures maps user ID to the error kind of its failure.
	Failures map[string]string
}
