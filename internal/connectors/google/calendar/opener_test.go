package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/custodia-labs/contest-reminder/internal/connectors/google"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

func newTestOpener(t *testing.T, tokenStatus int, tokenBody string) (*Opener, *fakeCalendarAPI) {
	t.Helper()
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		_, _ = w.Write([]byte(tokenBody))
	}))
	t.Cleanup(tokenSrv.Close)

	api := &fakeCalendarAPI{}
	calSrv := httptest.NewServer(api)
	t.Cleanup(calSrv.Close)

	cfg := google.OAuthConfig("client", "secret", "http://localhost/cb")
	cfg.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}

	opener := NewOpener(cfg, DefaultConfig(), nil).
		WithClientOptions(option.WithEndpoint(calSrv.URL + "/"))
	return opener, api
}

func TestOpener_Open(t *testing.T) {
	opener, api := newTestOpener(t, http.StatusOK,
		`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`)

	client, rotated, err := opener.Open(context.Background(), "rt-1")

	require.NoError(t, err)
	assert.Empty(t, rotated)

	_, err = client.FindEventTitles(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer at-1", api.state().auth)
}

func TestOpener_Open_Rotated(t *testing.T) {
	opener, _ := newTestOpener(t, http.StatusOK,
		`{"access_token":"at-1","token_type":"Bearer","expires_in":3600,"refresh_token":"rt-2"}`)

	_, rotated, err := opener.Open(context.Background(), "rt-1")

	require.NoError(t, err)
	assert.Equal(t, "rt-2", rotated)
}

func TestOpener_Open_Rejected(t *testing.T) {
	opener, _ := newTestOpener(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	client, _, err := opener.Open(context.Background(), "rt-1")

	assert.Nil(t, client)
	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestOpener_Open_Transient(t *testing.T) {
	opener, _ := newTestOpener(t, http.StatusBadGateway, `{}`)

	_, _, err := opener.Open(context.Background(), "rt-1")

	assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
}

func TestOpener_Open_NoToken(t *testing.T) {
	opener, _ := newTestOpener(t, http.StatusOK, `{}`)

	_, _, err := opener.Open(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestOpener_Open_CalendarCallsHonourTimeout(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	stalled := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer stalled.Close()

	cfg := google.OAuthConfig("client", "secret", "http://localhost/cb")
	cfg.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}

	opener := NewOpener(cfg, DefaultConfig(), &http.Client{Timeout: 200 * time.Millisecond}).
		WithClientOptions(option.WithEndpoint(stalled.URL + "/"))

	client, _, err := opener.Open(context.Background(), "rt-1")
	require.NoError(t, err)

	start := time.Now()
	_, err = client.FindEventTitles(context.Background(), "x", 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)

	start = time.Now()
	err = client.InsertEvent(context.Background(), domain.ReminderEvent{Title: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewOpener_TimeoutFromHTTPClient(t *testing.T) {
	cfg := google.OAuthConfig("client", "secret", "http://localhost/cb")

	assert.Equal(t, DefaultTimeout, NewOpener(cfg, DefaultConfig(), nil).cfg.Timeout)
	assert.Equal(t, 3*time.Second,
		NewOpener(cfg, DefaultConfig(), &http.Client{Timeout: 3 * time.Second}).cfg.Timeout)
}
