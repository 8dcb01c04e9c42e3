package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// Scopes requested during consent.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// OAuthConfig returns the OAuth2 client configuration for Google.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     googleoauth.Endpoint,
	}
}

// AuthCodeURL builds the consent URL. Offline access with a forced consent
// prompt makes Google issue a refresh token on every consent.
func AuthCodeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// RefreshTokenSource exchanges a refresh token for an access token.
// It returns a reusable TokenSource seeded with the fresh token, and the
// token itself so callers can detect a rotated refresh token.
// Errors are classified with ClassifyRefreshError.
func RefreshTokenSource(
	ctx context.Context, cfg *oauth2.Config, hc *http.Client, refreshToken string,
) (oauth2.TokenSource, *oauth2.Token, error) {
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}

	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, nil, ClassifyRefreshError(err)
	}

	return cfg.TokenSource(ctx, tok), tok, nil
}
