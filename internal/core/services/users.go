package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// Ensure UserService implements the interface.
var _ driving.UserDirectory = (*UserService)(nil)

// UserService manages credential records outside of a sync pass.
type UserService struct {
	users driven.UserStore
	now   func() time.Time
}

// NewUserService creates a user service.
func NewUserService(users driven.UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

// ListUsers implements driving.UserDirectory.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserCredential, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RegisterConsent implements driving.UserDirectory.
// An empty refreshToken keeps whatever token is already stored, since the
// provider only issues one when consent is granted afresh.
func (s *UserService) RegisterConsent(ctx context.Context, profile domain.UserProfile, refreshToken string) error {
	if profile.ID == "" {
		return fmt.Errorf("register consent: missing user id: %w", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	user := domain.UserCredential{
		UserID:       profile.ID,
		Email:        profile.Email,
		DisplayName:  profile.Name,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if refreshToken == "" {
		existing, err := s.users.Get(ctx, profile.ID)
		switch {
		case err == nil:
			user.RefreshToken = existing.RefreshToken
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("get user: %w", err)
		}
		logger.Warn("Consent for %s returned no refresh token", profile.ID)
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	logger.Info("Stored credentials for user %s", profile.ID)
	return nil
}
