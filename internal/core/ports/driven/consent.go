package driven

import (
	"context"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// ConsentProvider runs the identity provider side of the consent flow.
type ConsentProvider interface {
	// AuthURL returns the provider URL the user is redirected to.
	// state is echoed back on the callback.
	AuthURL(state string) string

	// Complete exchanges an authorization code for the user's profile and
	// refresh token. The token may be empty if the provider did not issue one.
	Complete(ctx context.Context, code string) (domain.UserProfile, string, error)
}
