package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
)

// --- Mock implementations shared by service tests ---

// mockSource implements driven.ContestSource for testing.
type mockSource struct {
	platform domain.Platform
	contests []domain.ContestRecord
	err      error
	panicMsg string
	delay    time.Duration

	mu    sync.Mutex
	calls int
}

func (m *mockSource) Platform() domain.Platform { return m.platform }

func (m *mockSource) Fetch(ctx context.Context) ([]domain.ContestRecord, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, domain.NewSourceError(m.platform, ctx.Err())
		}
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.contests, nil
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCalendar implements driven.CalendarClient backed by a slice of events.
type mockCalendar struct {
	mu        sync.Mutex
	events    []domain.ReminderEvent
	findErr   error
	insertErr map[string]error
	queries   []string
	inserts   int
}

func newMockCalendar(existingTitles ...string) *mockCalendar {
	m := &mockCalendar{insertErr: make(map[string]error)}
	for _, title := range existingTitles {
		m.events = append(m.events, domain.ReminderEvent{Title: title})
	}
	return m
}

func (m *mockCalendar) FindEventTitles(_ context.Context, query string, maxResults int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.findErr != nil {
		return nil, m.findErr
	}
	var titles []string
	for _, ev := range m.events {
		if strings.Contains(ev.Title, query) || strings.Contains(query, ev.Title) {
			titles = append(titles, ev.Title)
		}
		if int64(len(titles)) >= maxResults {
			break
		}
	}
	return titles, nil
}

func (m *mockCalendar) InsertEvent(_ context.Context, event domain.ReminderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertErr[event.Title]; err != nil {
		return err
	}
	m.inserts++
	m.events = append(m.events, event)
	return nil
}

func (m *mockCalendar) titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Title)
	}
	return out
}

// mockOpener implements driven.CalendarOpener for testing.
type mockOpener struct {
	mu       sync.Mutex
	clients  map[string]*mockCalendar // keyed by refresh token
	rejected map[string]bool
	errs     map[string]error
	rotate   map[string]string
	calls    int
}

func newMockOpener() *mockOpener {
	return &mockOpener{
		clients:  make(map[string]*mockCalendar),
		rejected: make(map[string]bool),
		errs:     make(map[string]error),
		rotate:   make(map[string]string),
	}
}

func (m *mockOpener) Open(_ context.Context, refreshToken string) (driven.CalendarClient, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.rejected[refreshToken] {
		return nil, "", errors.Join(domain.ErrAuthExpired, errors.New("invalid_grant"))
	}
	if err := m.errs[refreshToken]; err != nil {
		return nil, "", err
	}
	client, ok := m.clients[refreshToken]
	if !ok {
		client = newMockCalendar()
		m.clients[refreshToken] = client
	}
	return client, m.rotate[refreshToken], nil
}

func (m *mockOpener) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockUserStore implements driven.UserStore for testing.
type mockUserStore struct {
	mu       sync.RWMutex
	users    map[string]domain.UserCredential
	getErr   error
	listErr  error
	upsert   int
	updateRT []string
}

func newMockUserStore(users ...domain.UserCredential) *mockUserStore {
	m := &mockUserStore{users: make(map[string]domain.UserCredential)}
	for _, u := range users {
		m.users[u.UserID] = u
	}
	return m
}

func (m *mockUserStore) Get(_ context.Context, userID string) (*domain.UserCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *mockUserStore) Upsert(_ context.Context, user domain.UserCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert++
	if existing, ok := m.users[user.UserID]; ok {
		user.CreatedAt = existing.CreatedAt
		user.LastSyncedAt = existing.LastSyncedAt
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserStore) List(_ context.Context) ([]domain.UserCredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.UserCredential, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *mockUserStore) ListSyncable(ctx context.Context) ([]domain.UserCredential, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.UserCredential
	for _, u := range all {
		if u.RefreshToken != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserStore) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshToken = refreshToken
	m.users[userID] = u
	m.updateRT = append(m.updateRT, refreshToken)
	return nil
}

func (m *mockUserStore) ClearRefreshToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshToken = ""
	m.users[userID] = u
	return nil
}

func (m *mockUserStore) MarkSynced(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastSyncedAt = &at
	m.users[userID] = u
	return nil
}

func (m *mockUserStore) user(userID string) domain.UserCredential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[userID]
}

// mockUserSyncer implements driving.UserSyncer for testing.
type mockUserSyncer struct {
	mu       sync.Mutex
	outcomes map[string]domain.SyncOutcome
	errs     map[string]error
	panics   map[string]bool
	synced   []string
}

func (m *mockUserSyncer) SyncUser(_ context.Context, userID string) (domain.SyncOutcome, error) {
	m.mu.Lock()
	m.synced = append(m.synced, userID)
	m.mu.Unlock()
	if m.panics[userID] {
		panic("boom")
	}
	if err := m.errs[userID]; err != nil {
		return domain.SyncOutcome{}, err
	}
	return m.outcomes[userID], nil
}

// Ensure mocks implement interfaces
var (
	_ driven.ContestSource  = (*mockSource)(nil)
	_ driven.CalendarClient = (*mockCalendar)(nil)
	_ driven.CalendarOpener = (*mockOpener)(nil)
	_ driven.UserStore      = (*mockUserStore)(nil)
	_ driving.UserSyncer    = (*mockUserSyncer)(nil)
)

func contest(platform domain.Platform, title string, start time.Time) domain.ContestRecord {
	return domain.ContestRecord{
		Platform: platform,
		Title:    title,
		URL:      "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Start:    start,
	}
}
