package oauth

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// DefaultTimeout bounds how long Enroll waits for the user.
const DefaultTimeout = 5 * time.Minute

// ConsentFactory builds a consent provider for a redirect URI.
type ConsentFactory func(redirectURL string) driven.ConsentProvider

// Enroller runs the loopback consent flow and stores the result.
type Enroller struct {
	consent  ConsentFactory
	users    driving.UserDirectory
	open     func(url string) error
	newState func() string
}

// NewEnroller creates an enroller.
func NewEnroller(consent ConsentFactory, users driving.UserDirectory) *Enroller {
	return &Enroller{
		consent:  consent,
		users:    users,
		open:     OpenBrowser,
		newState: uuid.NewString,
	}
}

// EnrollOptions configures one enrolment.
type EnrollOptions struct {
	// Port for the loopback server. 0 picks a free port.
	Port int

	// OpenBrowser launches the system browser at the consent URL.
	OpenBrowser bool

	// Timeout bounds the wait for the callback. Zero means DefaultTimeout.
	Timeout time.Duration

	// Out receives the consent URL and progress messages.
	Out io.Writer
}

// Enroll sends the user through consent and registers their credentials.
func (e *Enroller) Enroll(ctx context.Context, opts EnrollOptions) (domain.UserProfile, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	state := e.newState()
	server := NewCallbackServer(opts.Port, state)
	if err := server.Start(); err != nil {
		return domain.UserProfile{}, err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Debug("Stopping callback server: %v", err)
		}
	}()

	consent := e.consent(server.RedirectURI())
	authURL := consent.AuthURL(state)

	fmt.Fprintf(opts.Out, "Open this URL to grant calendar access:\n\n  %s\n\n", authURL)
	if opts.OpenBrowser {
		if err := e.open(authURL); err != nil {
			logger.Debug("Opening browser: %v", err)
		}
	}
	fmt.Fprintf(opts.Out, "Waiting for authorization on %s ...\n", server.RedirectURI())

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	code, err := server.WaitForCode(waitCtx)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile, refreshToken, err := consent.Complete(ctx, code)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("completing consent: %w", err)
	}

	if err := e.users.RegisterConsent(ctx, profile, refreshToken); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}
