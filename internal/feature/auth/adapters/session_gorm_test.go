package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/usecase"
	"foodie/internal/platform/db/dbtest"
)

func seedSession(t *testing.T, db *gorm.DB, id string, userID uint, createdAt, expiresAt time.Time, revokedAt *time.Time) {
	t.Helper()
	err := db.Create(&SessionModel{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
	}).Error
	require.NoError(t, err, "failed to seed session")
}

func TestSessionGorm_CreateAndFind(t *testing.T) {
	t.Parallel()

	repo := NewSessionGorm(dbtest.Open(t, &SessionModel{}))
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	err := repo.Create(ctx, &entity.Session{
		ID:        "sid-1",
		UserID:    1,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.0.2.10",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.UserID)
	assert.Equal(t, "Mozilla/5.0", found.UserAgent)
	assert.True(t, found.IsValid())

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionGorm_Revoke(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t, &SessionModel{})
	repo := NewSessionGorm(db)
	ctx := context.Background()
	now := time.Now()
	seedSession(t, db, "sid-1", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "sid-2", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "sid-3", 2, now, now.Add(time.Hour), nil)

	require.NoError(t, repo.Revoke(ctx, "sid-1"))
	found, err := repo.FindByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())

	assert.ErrorIs(t, repo.Revoke(ctx, "sid-1"), usecase.ErrSessionNotFound, "second revoke finds nothing to revoke")
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)

	require.NoError(t, repo.RevokeAllByUserID(ctx, 1))
	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "other users keep their sessions")
}

func TestSessionGorm_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t, &SessionModel{})
	repo := NewSessionGorm(db)
	ctx := context.Background()
	now := time.Now()
	seedSession(t, db, "old", 1, now.Add(-2*time.Hour), now.Add(time.Hour), nil)
	seedSession(t, db, "new", 1, now.Add(-time.Hour), now.Add(time.Hour), nil)
	seedSession(t, db, "expired", 1, now.Add(-3*time.Hour), now.Add(-time.Minute), nil)

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "expired sessions are not counted")

	require.NoError(t, repo.DeleteOldestByUserID(ctx, 1))

	_, err = repo.FindByID(ctx, "old")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	_, err = repo.FindByID(ctx, "new")
	assert.NoError(t, err)

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, 42), "no sessions is not an error")
}

func TestSessionGorm_DeleteExpired(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t, &SessionModel{})
	repo := NewSessionGorm(db)
	now := time.Now()
	revoked := now.Add(-time.Minute)
	seedSession(t, db, "live", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "expired", 1, now, now.Add(-time.Hour), nil)
	seedSession(t, db, "revoked", 1, now, now.Add(time.Hour), &revoked)

	n, err := repo.DeleteExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = repo.FindByID(context.Background(), "live")
	assert.NoError(t, err)
}
