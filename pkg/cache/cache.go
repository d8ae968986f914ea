// Package cache is the key-value store that persists device state.
//
// Three drivers share the Store interface:
//
//	memory    process-local map, the default
//	redis     github.com/redis/go-redis/v9
//	database  kv_entries table through gorm
//
// Usage:
//
//	store, err := cache.Open("redis", nil)
//	_ = cache.SetJSON(ctx, store, "device:42:souqhup_userRole", "MERCHANT", 0)
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/pkg/metrics"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("cache: unknown driver")

// Store is a string key-value store. A ttl of zero means no expiry.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Name() string
}

// Open builds the store for driver. db is only used by the database driver.
func Open(driver string, db *gorm.DB) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return Connect()
	case "database":
		if db == nil {
			return nil, errors.New("cache: database driver needs a connection")
		}
		return NewDatabase(db), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
}

// GetJSON reads key and unmarshals it into dest. Returns true on a hit.
func GetJSON(ctx context.Context, s Store, key string, dest interface{}) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	metrics.ObserveCache(s.Name(), ok)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data), ttl)
}
