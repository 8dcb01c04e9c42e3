// Package oauth completes the OAuth authorization-code exchange for consent.
package oauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/contest-reminder/internal/connectors/google"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Ensure GoogleConsent implements the interface.
var _ driven.ConsentProvider = (*GoogleConsent)(nil)

// GoogleConsent runs the Google side of the consent flow.
type GoogleConsent struct {
	cfg *oauth2.Config
	hc  *http.Client
}

// NewGoogleConsent creates a consent provider. hc bounds outbound calls and may be nil.
func NewGoogleConsent(cfg *oauth2.Config, hc *http.Client) *GoogleConsent {
	return &GoogleConsent{cfg: cfg, hc: hc}
}

// AuthURL implements driven.ConsentProvider.
func (g *GoogleConsent) AuthURL(state string) string {
	return google.AuthCodeURL(g.cfg, state)
}

// Complete implements driven.ConsentProvider. The returned refresh token is
// empty when the provider did not issue a new one.
func (g *GoogleConsent) Complete(ctx context.Context, code string) (domain.UserProfile, string, error) {
	if code == "" {
		return domain.UserProfile{}, "", fmt.Errorf("missing authorization code: %w", domain.ErrInvalidInput)
	}

	if g.hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.hc)
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.UserProfile{}, "", fmt.Errorf("exchange code: %w", err)
	}

	info, err := google.GetUserInfo(ctx, g.hc, tok.AccessToken)
	if err != nil {
		return domain.UserProfile{}, "", fmt.Errorf("get user info: %w", err)
	}

	return info.Profile(), tok.RefreshToken, nil
}
