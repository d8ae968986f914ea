package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

func TestFlagsDefaultEnabled(t *testing.T) {
	f := services.NewFlagService(nil, event.NewBus())
	for _, svc := range models.Services {
		assert.True(t, f.IsEnabled(svc), svc)
	}
	assert.Len(t, f.List(), len(models.Services))
}

func TestFlagsSeededByNameOrSlug(t *testing.T) {
	f := services.NewFlagService(map[string]bool{
		"HATOo":           false,
		"market-vid":      false,
		"Nope":            false,
		"admin-dashboard": false,
	}, event.NewBus())

	assert.False(t, f.IsEnabled(models.ServiceHATOo))
	assert.False(t, f.IsEnabled(models.ServiceMarketVID))
	assert.True(t, f.IsEnabled(models.ServiceAdminDashboard))
}

func TestOnlyStaffSetsFlags(t *testing.T) {
	bus := event.NewBus()
	var changes []services.FlagEvent
	bus.Listen(event.FlagChanged, func(p interface{}) { changes = append(changes, p.(services.FlagEvent)) })
	f := services.NewFlagService(nil, bus)

	for _, role := range []models.Role{models.RoleMerchant, models.RoleImporter} {
		assert.ErrorIs(t, f.SetEnabled(role, models.ServiceTrends, false), services.ErrForbidden)
	}
	assert.True(t, f.IsEnabled(models.ServiceTrends))

	require.NoError(t, f.SetEnabled(models.RoleAdmin, models.ServiceTrends, false))
	require.NoError(t, f.SetEnabled(models.RoleAdmin, models.ServiceTrends, false))
	assert.False(t, f.IsEnabled(models.ServiceTrends))
	require.NoError(t, f.SetEnabled(models.RoleTeam, models.ServiceTrends, true))
	assert.True(t, f.IsEnabled(models.ServiceTrends))
	assert.Equal(t, []services.FlagEvent{
		{Service: models.ServiceTrends, Enabled: false},
		{Service: models.ServiceTrends, Enabled: true},
	}, changes)

	assert.ErrorIs(t, f.SetEnabled(models.RoleAdmin, models.ServiceAdminDashboard, false), services.ErrFlagProtected)
}
