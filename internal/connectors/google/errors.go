package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	return hasCode(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	return hasCode(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
// Calendar reports per-user quota exhaustion as 403 rateLimitExceeded.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// RetryAfter returns the Retry-After seconds carried by a Google API error, or 0.
func RetryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	n, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || n < 0 {
		return 0
	}
	return n
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// WrapError converts a Google API error to a more specific error type.
// Credential and quota failures also carry the matching domain error.
func WrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsRateLimited(err):
		return fmt.Errorf("%w: %w", ErrRateLimited, domain.ErrRateLimited)
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %w", ErrUnauthorized, domain.ErrAuthExpired)
	case IsForbidden(err):
		return ErrForbidden
	case IsNotFound(err):
		return ErrNotFound
	default:
		return err
	}
}

// ClassifyRefreshError maps a refresh-token exchange failure to the domain.
// A grant the provider rejects becomes domain.ErrAuthExpired; anything else,
// including network failures and 5xx responses, becomes
// domain.ErrTokenRefreshFailed.
func ClassifyRefreshError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.ErrorCode == "invalid_grant" || rerr.ErrorCode == "unauthorized_client" {
			return fmt.Errorf("%w: %s", domain.ErrAuthExpired, rerr.ErrorCode)
		}
		if rerr.Response != nil {
			switch rerr.Response.StatusCode {
			case http.StatusBadRequest, http.StatusUnauthorized:
				return fmt.Errorf("%w: status %d", domain.ErrAuthExpired, rerr.Response.StatusCode)
			}
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
}
