package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// UserStore persists user credential records.
// Every mutation is keyed by user and applied as a single statement,
// so concurrent syncs for different users never interfere.
type UserStore interface {
	// Get retrieves a user by ID.
	// Returns domain.ErrNotFound if the user does not exist.
	Get(ctx context.Context, userID string) (*domain.UserCredential, error)

	// Upsert creates or updates a user after consent.
	// CreatedAt is kept from the existing record when one exists.
	Upsert(ctx context.Context, user domain.UserCredential) error

	// List returns every stored user ordered by ID.
	List(ctx context.Context) ([]domain.UserCredential, error)

	// ListSyncable returns users with a non-empty refresh token.
	ListSyncable(ctx context.Context) ([]domain.UserCredential, error)

	// UpdateRefreshToken replaces the user's refresh token.
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error

	// ClearRefreshToken removes the user's refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error

	// MarkSynced records a successful sync time.
	MarkSynced(ctx context.Context, userID string, at time.Time) error
}

// TokenSealer encrypts refresh tokens before they are written to storage.
type TokenSealer interface {
	// Seal encrypts plaintext.
	Seal(plaintext string) (string, error)

	// Open decrypts a sealed value.
	Open(sealed string) (string, error)
}
