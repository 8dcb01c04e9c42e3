package domain

import "time"

// UserCredential is a user's stored identity and long-lived refresh token.
// A record without a refresh token cannot be synchronised.
type UserCredential struct {
	// UserID is the identity provider's stable subject identifier.
	UserID string

	// Email is the user's account email.
	Email string

	// DisplayName is the user's profile name.
	DisplayName string

	// RefreshToken is the long-lived credential. Empty after revocation.
	RefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time

	// LastSyncedAt is set after each successful sync. Nil if never synced.
	LastSyncedAt *time.Time
}

// HasRefreshToken reports whether the user can be synchronised.
func (u *UserCredential) HasRefreshToken() bool {
	return u != nil && u.RefreshToken != ""
}

// UserProfile is the identity returned by the provider after consent.
type UserProfile struct {
	ID    string
	Email string
	Name  string
}
