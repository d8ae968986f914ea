package services

import "github.com/shashiranjanraj/souqhup/app/models"

// Payloads of the events fired on the bus.

type SessionEvent struct {
	DeviceID string
	Role     models.Role
}

type ProfileEvent struct {
	DeviceID string
	Role     models.Role
}

type FlagEvent struct {
	Service models.Service `json:"service"`
	Enabled bool           `json:"enabled"`
}

type LedgerEvent struct {
	Set    string `json:"set"`
	PostID string `json:"post_id"`
	Member bool   `json:"member"`
}

type PostEvent struct {
	Post models.Post `json:"post"`
}

type ChatEvent struct {
	DeviceID string             `json:"-"`
	Message  models.ChatMessage `json:"message"`
}

type UpgradeEvent struct {
	DeviceID string
	Role     models.Role
	Service  models.Service
}

type GenAIEvent struct {
	Feature string
	Outcome string
}

type AutomationEvent struct {
	ProfileID string          `json:"profile_id"`
	Service   models.Service  `json:"service"`
	Strategy  models.Strategy `json:"strategy"`
	Display   []string        `json:"display"`
}
