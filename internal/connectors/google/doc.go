// Package google provides shared infrastructure for the Google connectors.
//
// It contains:
//   - OAuth2 configuration for the consent flow and refresh-token exchange
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
// The calendar connector uses this package to turn a stored refresh token
// into an authenticated API client:
//
//	cfg := google.OAuthConfig(clientID, clientSecret, redirectURL)
//	ts, tok, err := google.RefreshTokenSource(ctx, cfg, refreshToken)
//	svc, err := google.NewCalendarService(ctx, ts)
//
// # OAuth2 Scopes
//
//   - https://www.googleapis.com/auth/calendar (sensitive)
//   - https://www.googleapis.com/auth/userinfo.email (non-sensitive)
//   - https://www.googleapis.com/auth/userinfo.profile (non-sensitive)
package google
