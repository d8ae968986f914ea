package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
)

func init() {
	Register("device_state", ResetDeviceState)
	Register("beta_invites", SeedBetaInvites)
}

// ResetDeviceState drops every persisted device session, so each device
// starts again from the default profiles.
func ResetDeviceState(db *gorm.DB) error {
	return db.Where("entry_key LIKE ?", "device:%").Delete(&cache.Entry{}).Error
}

// SeedBetaInvites inserts sample invitations. Existing rows are kept.
func SeedBetaInvites(db *gorm.DB) error {
	rows := []models.BetaInvite{
		{UUID: "5d0c6f7e-0b8a-4c1e-9a51-7a1d2f0c9e01", Name: "Mona Adel", Email: "mona@deltatrading.eg", Company: "Delta Trading", Status: "pending"},
		{UUID: "9b4e2a13-6c7d-4f80-8e2b-3c5d7e9f1a02", Name: "Karim Fawzy", Email: "karim@portsaidhub.eg", Company: "Port Said Hub", Status: "invited"},
	}
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uuid"}}, DoNothing: true}).Create(&rows).Error
}
