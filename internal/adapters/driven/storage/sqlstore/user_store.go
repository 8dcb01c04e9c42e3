package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

const userColumns = `id, email, display_name, refresh_token, created_at, updated_at, last_synced_at`

// Get retrieves a user by ID.
func (s *userStore) Get(ctx context.Context, userID string) (*domain.UserCredential, error) {
	row := s.store.db.QueryRowContext(ctx, s.store.rebind(`
		SELECT `+userColumns+`
		FROM users WHERE id = ?
	`), userID)

	user, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return user, nil
}

// Upsert creates or updates a user. created_at is only written on insert.
func (s *userStore) Upsert(ctx context.Context, user domain.UserCredential) error {
	if user.UserID == "" {
		return domain.ErrInvalidInput
	}

	token, err := s.seal(user.RefreshToken)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, s.store.rebind(`
		INSERT INTO users (id, email, display_name, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`), user.UserID, user.Email, user.DisplayName, nullString(token),
		formatNullableTime(user.CreatedAt), formatNullableTime(user.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// List returns every user ordered by ID.
func (s *userStore) List(ctx context.Context) ([]domain.UserCredential, error) {
	return s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListSyncable returns users holding a refresh token, ordered by ID.
func (s *userStore) ListSyncable(ctx context.Context) ([]domain.UserCredential, error) {
	return s.query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE refresh_token IS NOT NULL AND refresh_token <> ''
		ORDER BY id
	`)
}

// UpdateRefreshToken replaces the user's refresh token.
func (s *userStore) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	token, err := s.seal(refreshToken)
	if err != nil {
		return err
	}
	return s.exec(ctx, "updating refresh token",
		`UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`,
		nullString(token), formatNullableTime(time.Now()), userID)
}

// ClearRefreshToken removes the user's refresh token.
func (s *userStore) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.exec(ctx, "clearing refresh token",
		`UPDATE users SET refresh_token = NULL, updated_at = ? WHERE id = ?`,
		formatNullableTime(time.Now()), userID)
}

// MarkSynced records a successful sync time.
func (s *userStore) MarkSynced(ctx context.Context, userID string, at time.Time) error {
	return s.exec(ctx, "marking user synced",
		`UPDATE users SET last_synced_at = ? WHERE id = ?`,
		formatNullableTime(at), userID)
}

// exec runs a single keyed update and reports a missing user as ErrNotFound.
func (s *userStore) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.store.db.ExecContext(ctx, s.store.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *userStore) query(ctx context.Context, query string) ([]domain.UserCredential, error) {
	rows, err := s.store.db.QueryContext(ctx, s.store.rebind(query))
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserCredential //nolint:prealloc // size unknown from query
	for rows.Next() {
		user, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *userStore) scan(row rowScanner) (*domain.UserCredential, error) {
	var user domain.UserCredential
	var token, createdAt, updatedAt, lastSynced sql.NullString

	if err := row.Scan(&user.UserID, &user.Email, &user.DisplayName,
		&token, &createdAt, &updatedAt, &lastSynced); err != nil {
		return nil, err
	}

	plain, err := s.open(token.String)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = plain
	user.CreatedAt = parseNullableTime(createdAt)
	user.UpdatedAt = parseNullableTime(updatedAt)
	if t := parseNullableTime(lastSynced); !t.IsZero() {
		user.LastSyncedAt = &t
	}

	return &user, nil
}

func (s *userStore) seal(token string) (string, error) {
	if token == "" || s.store.sealer == nil {
		return token, nil
	}
	sealed, err := s.store.sealer.Seal(token)
	if err != nil {
		return "", fmt.Errorf("sealing refresh token: %w", err)
	}
	return sealed, nil
}

func (s *userStore) open(token string) (string, error) {
	if token == "" || s.store.sealer == nil {
		return token, nil
	}
	plain, err := s.store.sealer.Open(token)
	if err != nil {
		return "", fmt.Errorf("opening refresh token: %w", err)
	}
	return plain, nil
}
