package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/repositories"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// NotificationService keeps the alert preferences of each device. Like the
// session, a failed write is logged and the in-memory answer still stands.
type NotificationService struct {
	repo  *repositories.StateRepository
	flags *FlagService
	locks *keyedMutex
}

func NewNotificationService(repo *repositories.StateRepository, flags *FlagService) *NotificationService {
	return &NotificationService{repo: repo, flags: flags, locks: newKeyedMutex()}
}

func (n *NotificationService) check(state models.SessionState) error {
	if !state.LoggedIn {
		return ErrNotAuthenticated
	}
	if !n.flags.IsEnabled(models.ServiceNotificationSettings) {
		return ErrServiceDisabled
	}
	return nil
}

// Settings returns the preferences of deviceID, defaults when none were
// saved.
func (n *NotificationService) Settings(ctx context.Context, state models.SessionState, deviceID string) (models.NotificationSettings, error) {
	if err := n.check(state); err != nil {
		return models.NotificationSettings{}, err
	}
	unlock := n.locks.Lock(deviceID)
	defer unlock()
	return n.load(ctx, deviceID), nil
}

// Toggle flips one preference, named by its JSON key, and returns the
// updated settings.
func (n *NotificationService) Toggle(ctx context.Context, state models.SessionState, deviceID, key string) (models.NotificationSettings, error) {
	if err := n.check(state); err != nil {
		return models.NotificationSettings{}, err
	}
	unlock := n.locks.Lock(deviceID)
	defer unlock()

	settings := n.load(ctx, deviceID)
	if _, err := settings.Toggle(key); err != nil {
		return settings, fmt.Errorf("%w: %v", ErrUnknownSetting, err)
	}
	if err := n.repo.SaveNotifications(ctx, deviceID, settings); err != nil {
		logger.WithCtx(ctx).Warn("notifications: write-through failed", "device_id", deviceID, "setting", key, "error", err)
	}
	return settings, nil
}

func (n *NotificationService) load(ctx context.Context, deviceID string) models.NotificationSettings {
	settings, err := n.repo.LoadNotifications(ctx, deviceID)
	if err != nil {
		logger.WithCtx(ctx).Warn("notifications: read failed, using defaults", "device_id", deviceID, "error", err)
	}
	return settings
}
