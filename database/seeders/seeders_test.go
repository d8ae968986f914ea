package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/database/seeders"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&cache.Entry{}, &models.BetaInvite{}))
	return db
}

func TestRunAllIsRepeatable(t *testing.T) {
	db := testDB(t)
	store := cache.NewDatabase(db)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "device:abc:souqhup_isLoggedIn", "true", 0))
	require.NoError(t, store.Set(ctx, "souqhup:other", "kept", 0))

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(db, &out))
	require.NoError(t, seeders.RunAll(db, &out))
	assert.Contains(t, out.String(), "beta_invites")

	var invites int64
	require.NoError(t, db.Model(&models.BetaInvite{}).Count(&invites).Error)
	assert.Equal(t, int64(2), invites)

	_, ok, err := store.Get(ctx, "device:abc:souqhup_isLoggedIn")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, "souqhup:other")
	require.NoError(t, err)
	assert.True(t, ok)
}
