package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fintrack/database"
	"fintrack/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))
	return db
}

func insertUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, 'x')",
		username, username+"@example.com",
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestSessionCreateAndValidate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)
	userID := insertUser(t, db, "alice")

	session, err := svc.Create(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, userID, session.UserID)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), session.ExpiresAt, time.Minute)

	user, err := svc.Validate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestSessionValidateUnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)

	_, err := svc.Validate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionValidateExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, -time.Minute)
	userID := insertUser(t, db, "alice")

	session, err := svc.Create(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionDeleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)
	userID := insertUser(t, db, "alice")

	session, err := svc.Create(context.Background(), userID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), session.Token))
	_, err = svc.Validate(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A second delete of the same token is still fine.
	assert.NoError(t, svc.Delete(context.Background(), session.Token))
}

func TestSessionDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	userID := insertUser(t, db, "alice")

	expired := NewSessionService(db, -time.Minute)
	live := NewSessionService(db, time.Hour)

	for i := 0; i < 3; i++ {
		_, err := expired.Create(context.Background(), userID)
		require.NoError(t, err)
	}
	keep, err := live.Create(context.Background(), userID)
	require.NoError(t, err)

	removed, err := live.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	_, err = live.Validate(context.Background(), keep.Token)
	assert.NoError(t, err)
}
