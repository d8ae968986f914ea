package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/souqhup/pkg/cache"
)

func sqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&cache.Entry{}))
	return db
}

func stores(t *testing.T) []cache.Store {
	return []cache.Store{cache.NewMemory(), cache.NewDatabase(sqliteDB(t))}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, s := range stores(t) {
		t.Run(s.Name(), func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "device:1:souqhup_userRole", "MERCHANT", 0))
			require.NoError(t, s.Set(ctx, "device:1:souqhup_userRole", "IMPORTER", 0))

			v, ok, err := s.Get(ctx, "device:1:souqhup_userRole")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "IMPORTER", v)

			require.NoError(t, s.Del(ctx, "device:1:souqhup_userRole"))
			_, ok, _ = s.Get(ctx, "device:1:souqhup_userRole")
			assert.False(t, ok)
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for _, s := range stores(t) {
		t.Run(s.Name(), func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "short", "x", time.Millisecond))
			time.Sleep(5 * time.Millisecond)
			_, ok, err := s.Get(ctx, "short")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemory()

	type profile struct {
		Name string `json:"name"`
	}
	require.NoError(t, cache.SetJSON(ctx, s, "p", profile{Name: "Cairo Textiles Co."}, 0))

	var out profile
	ok, err := cache.GetJSON(ctx, s, "p", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cairo Textiles Co.", out.Name)

	require.NoError(t, s.Set(ctx, "broken", "{", 0))
	ok, err = cache.GetJSON(ctx, s, "broken", &out)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := cache.Open("memory", nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name())

	_, err = cache.Open("database", nil)
	assert.Error(t, err)

	_, err = cache.Open("etcd", nil)
	assert.True(t, errors.Is(err, cache.ErrUnknownDriver))
}

func TestDatabasePrune(t *testing.T) {
	ctx := context.Background()
	s := cache.NewDatabase(sqliteDB(t))

	require.NoError(t, s.Set(ctx, "gone", "x", time.Millisecond))
	require.NoError(t, s.Set(ctx, "kept", "y", 0))
	time.Sleep(5 * time.Millisecond)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, ok, err := s.Get(ctx, "kept")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}
