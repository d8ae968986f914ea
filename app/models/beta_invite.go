package models

import "gorm.io/gorm"

// BetaInvite is a request for early access submitted from the public login.
type BetaInvite struct {
	gorm.Model
	UUID    string `gorm:"size:36;uniqueIndex;not null" json:"id"`
	Name    string `gorm:"size:255;not null"            json:"name"`
	Email   string `gorm:"size:255;not null;index"      json:"email"`
	Company string `gorm:"size:255"                     json:"company"`
	Status  string `gorm:"size:50;default:pending"      json:"status"`
}
