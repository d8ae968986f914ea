// Package migrations registers the schema of the gateway. It is imported
// for side effects by the CLI.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/migration"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
)

func init() {
	migration.Register("20260301000000_create_kv_entries_table", &CreateKVEntries{})
	migration.Register("20260301000001_create_beta_invites_table", &CreateBetaInvites{})
	migration.Register("20260301000002_create_failed_jobs_table", &CreateFailedJobs{})
}

// CreateKVEntries backs the database driver of the device state store.
type CreateKVEntries struct{}

func (CreateKVEntries) Up(db *gorm.DB) error   { return db.AutoMigrate(&cache.Entry{}) }
func (CreateKVEntries) Down(db *gorm.DB) error { return db.Migrator().DropTable(&cache.Entry{}) }

type CreateBetaInvites struct{}

func (CreateBetaInvites) Up(db *gorm.DB) error { return db.AutoMigrate(&models.BetaInvite{}) }
func (CreateBetaInvites) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.BetaInvite{})
}

type CreateFailedJobs struct{}

func (CreateFailedJobs) Up(db *gorm.DB) error   { return db.AutoMigrate(&queue.FailedJob{}) }
func (CreateFailedJobs) Down(db *gorm.DB) error { return db.Migrator().DropTable(&queue.FailedJob{}) }
