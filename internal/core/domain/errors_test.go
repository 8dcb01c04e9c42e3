package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrAuthExpired", ErrAuthExpired},
		{"ErrTokenRefreshFailed", ErrTokenRefreshFailed},
		{"ErrSourceFetch", ErrSourceFetch},
		{"ErrRecordParse", ErrRecordParse},
		{"ErrCalendarWrite", ErrCalendarWrite},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrSyncInProgress", ErrSyncInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrAuthRequired(t *testing.T) {
	assert.Equal(t, "authentication required", ErrAuthRequired.Error())
	assert.False(t, errors.Is(ErrAuthRequired, ErrAuthExpired))
}

func TestSourceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceError(PlatformCodeforces, cause)

	assert.True(t, errors.Is(err, ErrSourceFetch))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "Codeforces")
	assert.Contains(t, err.Error(), "connection refused")

	var srcErr *SourceError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &srcErr))
	assert.Equal(t, PlatformCodeforces, srcErr.Platform)
}

func TestRecordError_Unwrap(t *testing.T) {
	err := &RecordError{Platform: PlatformMentorPick, Index: 3, Err: errors.New("bad time")}

	assert.True(t, errors.Is(err, ErrRecordParse))
	assert.Contains(t, err.Error(), "listing 3")
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("get user: %w", ErrNotFound), KindNotFound},
		{"auth required", ErrAuthRequired, KindAuthRequired},
		{"auth expired", fmt.Errorf("open calendar: %w", ErrAuthExpired), KindAuthExpired},
		{"refresh failed", ErrTokenRefreshFailed, KindRefreshFailed},
		{"source", NewSourceError(PlatformLeetCode, errors.New("x")), KindSourceFetch},
		{"calendar", fmt.Errorf("%w: insert", ErrCalendarWrite), KindCalendarWrite},
		{"in progress", ErrSyncInProgress, KindInProgress},
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), KindCanceled},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
