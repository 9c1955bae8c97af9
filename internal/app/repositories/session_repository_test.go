package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/session"
)

func TestSessionRepository_SaveQueryUpserts(t *testing.T) {
	repo := NewSessionRepository(nil)

	s := &session.Session{
		ID:        "sess-1",
		Token:     "tok",
		User:      &models.User{ID: "u1", SchoolID: "s1"},
		Hydrated:  false,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	sql, args, err := repo.saveQuery(s)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO dashboard_sessions")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, sql, "$8")
	require.Len(t, args, 8)
	assert.Equal(t, "sess-1", args[0])
	assert.JSONEq(t, `{"id":"u1","firstName":"","email":"","role":"","schoolId":"s1"}`, string(args[2].([]byte)))
}

func TestSessionRepository_SaveQueryAnonymous(t *testing.T) {
	repo := NewSessionRepository(nil)

	_, args, err := repo.saveQuery(&session.Session{ID: "anon", Hydrated: true})
	require.NoError(t, err)
	assert.Nil(t, args[2])
	assert.Nil(t, args[6])
}

func TestSessionRepository_LoadQuery(t *testing.T) {
	repo := NewSessionRepository(nil)

	sql, args, err := repo.loadQuery("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, token, user_data, school_name, hydrated, created_at, expires_at FROM dashboard_sessions WHERE id = $1 LIMIT 1", sql)
	assert.Equal(t, []interface{}{"sess-1"}, args)
}

func TestSessionRepository_CountQueryIgnoresExpired(t *testing.T) {
	repo := NewSessionRepository(nil)
	now := time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)

	sql, args, err := repo.countQuery(now)
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT COUNT(*) FROM dashboard_sessions")
	assert.Contains(t, sql, "expires_at IS NULL OR expires_at >= $1")
	assert.Equal(t, []interface{}{now}, args)
}
