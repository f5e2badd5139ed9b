// File: internal/favorite/repository_test.go
package favorite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepository(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Favorite{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return NewGORMRepository(db)
}

func TestRepository_AddIsIdempotent(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	propertyID := uuid.New()

	require.NoError(t, repo.Add(ctx, userID, propertyID))
	require.NoError(t, repo.Add(ctx, userID, propertyID), "re-adding the same pair is a no-op")

	ids, err := repo.ListPropertyIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{propertyID}, ids)
}

func TestRepository_RemoveMissingIsNoop(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Remove(ctx, uuid.New(), uuid.New()))
}

func TestRepository_AddRemoveRoundTrip(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	propertyID := uuid.New()

	require.NoError(t, repo.Add(ctx, userID, propertyID))

	exists, err := repo.Exists(ctx, userID, propertyID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Remove(ctx, userID, propertyID))

	exists, err = repo.Exists(ctx, userID, propertyID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListIsScopedToUser(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	propertyID := uuid.New()

	require.NoError(t, repo.Add(ctx, alice, propertyID))
	require.NoError(t, repo.Add(ctx, bob, uuid.New()))

	ids, err := repo.ListPropertyIDs(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{propertyID}, ids)

	exists, err := repo.Exists(ctx, bob, propertyID)
	require.NoError(t, err)
	assert.False(t, exists, "membership never leaks across users")
}
