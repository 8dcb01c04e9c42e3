package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.UserCredential
	now   func() time.Time
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.UserCredential),
		now:   time.Now,
	}
}

// Get retrieves a user by ID.
func (s *UserStore) Get(_ context.Context, userID string) (*domain.UserCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(user), nil
}

// Upsert creates or updates a user, keeping CreatedAt of an existing record.
func (s *UserStore) Upsert(_ context.Context, user domain.UserCredential) error {
	if user.UserID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if existing, ok := s.users[user.UserID]; ok {
		user.CreatedAt = existing.CreatedAt
		if user.LastSyncedAt == nil {
			user.LastSyncedAt = existing.LastSyncedAt
		}
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.UserID] = user
	return nil
}

// List returns every user ordered by ID.
func (s *UserStore) List(_ context.Context) ([]domain.UserCredential, error) {
	return s.filter(func(domain.UserCredential) bool { return true }), nil
}

// ListSyncable returns users holding a refresh token, ordered by ID.
func (s *UserStore) ListSyncable(_ context.Context) ([]domain.UserCredential, error) {
	return s.filter(func(u domain.UserCredential) bool { return u.RefreshToken != "" }), nil
}

// UpdateRefreshToken replaces the user's refresh token.
func (s *UserStore) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	return s.mutate(userID, func(u *domain.UserCredential) { u.RefreshToken = refreshToken })
}

// ClearRefreshToken removes the user's refresh token.
func (s *UserStore) ClearRefreshToken(_ context.Context, userID string) error {
	return s.mutate(userID, func(u *domain.UserCredential) { u.RefreshToken = "" })
}

// MarkSynced records a successful sync time.
func (s *UserStore) MarkSynced(_ context.Context, userID string, at time.Time) error {
	at = at.UTC()
	return s.mutate(userID, func(u *domain.UserCredential) { u.LastSyncedAt = &at })
}

func (s *UserStore) mutate(userID string, fn func(*domain.UserCredential)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = s.now().UTC()
	s.users[userID] = user
	return nil
}

func (s *UserStore) filter(keep func(domain.UserCredential) bool) []domain.UserCredential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.UserCredential, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			result = append(result, *copyUser(u))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

func copyUser(u domain.UserCredential) *domain.UserCredential {
	if u.LastSyncedAt != nil {
		t := *u.LastSyncedAt
		u.LastSyncedAt = &t
	}
	return &u
}
