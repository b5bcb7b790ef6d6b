package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/salesdash-be/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// clockAt returns a clock that starts at base and advances by step per call.
func clockAt(base time.Time, step time.Duration) func() time.Time {
	next := base
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func TestEventService_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	svc.now = clockAt(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	ctx := context.Background()

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (company_name, username, email, password_hash, created_at, updated_at) VALUES ('Acme', 'alice01', 'a@acme.com', 'x', ?, ?)",
		time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)
	uid, err := res.LastInsertId()
	require.NoError(t, err)

	require.NoError(t, svc.CreateEvent(ctx, EventLoginFail, "warn", "first", nil))
	require.NoError(t, svc.CreateEvent(ctx, EventSignup, "info", "second", &uid))
	require.NoError(t, svc.CreateEvent(ctx, EventLoginSuccess, "info", "third", &uid))

	events, err := svc.GetRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "third", events[0].Message)
	assert.Equal(t, "second", events[1].Message)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, uid, *events[0].UserID)
	assert.NotEmpty(t, events[0].ID)

	all, err := svc.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Nil(t, all[2].UserID)
}

func TestEventService_EmptyListIsNotNil(t *testing.T) {
	svc := NewEventService(newTestDB(t))

	events, err := svc.GetRecentEvents(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventService_PurgeOlderThan(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = clockAt(base, 24*time.Hour)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.CreateEvent(ctx, EventLoginSuccess, "info", "login", nil))
	}

	// Events exist at day 0, 1, 2 and 3.
	n, err := svc.PurgeOlderThan(ctx, base.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := svc.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}
