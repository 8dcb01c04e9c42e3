package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates the user has no refresh token on record.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the identity provider rejected the refresh token.
	// The stored token has been cleared and the user must consent again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates a transient failure exchanging the
	// refresh token. The stored token is left untouched.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Sync Errors.

	// ErrSourceFetch indicates a contest platform could not be read.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrRecordParse indicates a single listing failed strict mapping.
	ErrRecordParse = errors.New("record parse failed")

	// ErrCalendarWrite indicates a calendar query or insert failed.
	ErrCalendarWrite = errors.New("calendar write failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrSyncInProgress indicates a sync is already running for the user.
	ErrSyncInProgress = errors.New("sync in progress")
)

// SourceError wraps a fetch failure for one platform.
type SourceError struct {
	Platform Platform
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform, ErrSourceFetch, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceFetch, e.Err}
}

// NewSourceError wraps err as a fetch failure for platform.
func NewSourceError(platform Platform, err error) error {
	return &SourceError{Platform: platform, Err: err}
}

// RecordError wraps a mapping failure for one listing.
type RecordError struct {
	Platform Platform
	Index    int
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s listing %d: %s: %v", e.Platform, e.Index, ErrRecordParse, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *RecordError) Unwrap() []error {
	return []error{ErrRecordParse, e.Err}
}

// Error kinds are stable labels used in logs, metrics and response bodies.
const (
	KindNotFound      = "not_found"
	KindAuthRequired  = "unauthenticated"
	KindAuthExpired   = "auth_expired"
	KindRefreshFailed = "refresh_failed"
	KindSourceFetch   = "source_fetch"
	KindRecordParse   = "record_parse"
	KindCalendarWrite = "calendar_write"
	KindRateLimited   = "rate_limited"
	KindInProgress    = "sync_in_progress"
	KindInvalidInput  = "invalid_input"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// ErrorKind classifies err into one of the Kind labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAuthRequired):
		return KindAuthRequired
	case errors.Is(err, ErrAuthExpired):
		return KindAuthExpired
	case errors.Is(err, ErrTokenRefreshFailed):
		return KindRefreshFailed
	case errors.Is(err, ErrSourceFetch):
		return KindSourceFetch
	case errors.Is(err, ErrRecordParse):
		return KindRecordParse
	case errors.Is(err, ErrCalendarWrite):
		return KindCalendarWrite
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrSyncInProgress):
		return KindInProgress
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
