package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/souqhup/pkg/metrics"
)

// Entry is one row of the kv_entries table.
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// Database is a Store over a SQL table.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database { return &Database{db: db} }

func (d *Database) Name() string { return "database" }

func (d *Database) Get(ctx context.Context, key string) (string, bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var e Entry
	err := d.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		_ = d.Del(ctx, key)
		return "", false, nil
	}
	return e.Value, true, nil
}

func (d *Database) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	defer metrics.ObserveDBQuery("upsert", time.Now())
	e := Entry{Key: key, Value: value}
	if ttl > 0 {
		at := time.Now().Add(ttl)
		e.ExpiresAt = &at
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (d *Database) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	defer metrics.ObserveDBQuery("delete", time.Now())
	return d.db.WithContext(ctx).Where("entry_key IN ?", keys).Delete(&Entry{}).Error
}

// Prune deletes expired rows and returns how many went.
func (d *Database) Prune(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery("prune", time.Now())
	res := d.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).Delete(&Entry{})
	return res.RowsAffected, res.Error
}
