package calendar

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/custodia-labs/contest-reminder/internal/connectors/google"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.CalendarOpener = (*Opener)(nil)

// Opener turns stored refresh tokens into calendar clients.
type Opener struct {
	oauth      *oauth2.Config
	cfg        Config
	httpClient *http.Client
	options    []option.ClientOption
}

// NewOpener creates an opener. httpClient bounds the token exchange and may be
// nil; its timeout, when set, also bounds each Calendar API call.
func NewOpener(oauthCfg *oauth2.Config, cfg Config, httpClient *http.Client) *Opener {
	if httpClient != nil && httpClient.Timeout > 0 {
		cfg.Timeout = httpClient.Timeout
	}
	return &Opener{oauth: oauthCfg, cfg: cfg, httpClient: httpClient}
}

// WithClientOptions appends options used when building the Calendar service.
func (o *Opener) WithClientOptions(opts ...option.ClientOption) *Opener {
	o.options = append(o.options, opts...)
	return o
}

// Open implements driven.CalendarOpener.
func (o *Opener) Open(ctx context.Context, refreshToken string) (driven.CalendarClient, string, error) {
	if refreshToken == "" {
		return nil, "", domain.ErrAuthRequired
	}

	ts, tok, err := google.RefreshTokenSource(ctx, o.oauth, o.httpClient, refreshToken)
	if err != nil {
		return nil, "", err
	}

	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	svc, err := google.NewCalendarService(ctx, ts, o.options...)
	if err != nil {
		return nil, "", fmt.Errorf("create calendar service: %w", err)
	}

	rotated := ""
	if tok.RefreshToken != "" && tok.RefreshToken != refreshToken {
		rotated = tok.RefreshToken
	}

	return NewClient(svc, o.cfg, google.NewRateLimiter(google.ServiceCalendar)), rotated, nil
}
