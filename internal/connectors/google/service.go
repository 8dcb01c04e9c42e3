package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

// UserInfoURL is the OAuth2 v2 userinfo endpoint.
var UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo contains the user's basic profile information from Google.
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Profile converts the userinfo response to a domain profile.
func (u *UserInfo) Profile() domain.UserProfile {
	return domain.UserProfile{ID: u.ID, Email: u.Email, Name: u.Name}
}

// NewCalendarService creates a Google Calendar API service using the provided TokenSource.
// Extra options are appended after the token source.
func NewCalendarService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*calendar.Service, error) {
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	return calendar.NewService(ctx, all...)
}

// GetUserInfo fetches the user's profile information using an access token.
// The account id it returns is the stable user identifier.
func GetUserInfo(ctx context.Context, hc *http.Client, accessToken string) (*UserInfo, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, UserInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if userInfo.ID == "" {
		return nil, fmt.Errorf("user info has no id: %w", domain.ErrInvalidInput)
	}

	return &userInfo, nil
}
