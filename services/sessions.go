package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/models"

	"github.com/google/uuid"
)

// SessionService issues and validates opaque session tokens stored in the
// sessions table. A session lives for a fixed TTL from issuance; expiry is
// enforced by the lookup query, so no handler ever checks timestamps itself.
type SessionService struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSessionService creates a SessionService with the given session lifetime.
func NewSessionService(db *sql.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create opens a new session bound to userID and returns it.
func (s *SessionService) Create(ctx context.Context, userID int64) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		session.Token, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Validate resolves a token to its user. Unknown, expired, or orphaned
// tokens all come back as ErrUnauthorized.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, time.Now().UTC()).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}
	return &u, nil
}

// Delete removes a session by token. Deleting a token that does not exist is
// not an error, which keeps logout idempotent.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes sessions past their expiry and returns how many rows
// were removed.
func (s *SessionService) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
