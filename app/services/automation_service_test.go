package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func automationPosts() []models.Post {
	return []models.Post{
		{ID: "a", Type: models.MediaImage, Views: 1000, Interactions: 100, CreatedAt: epoch.Add(-3 * time.Hour)},
		{ID: "b", Type: models.MediaImage, Views: 1000, Interactions: 500, CreatedAt: epoch.Add(-2 * time.Hour)},
		{ID: "c", Type: models.MediaImage, Views: 100, Interactions: 90, CreatedAt: epoch.Add(-1 * time.Hour)},
		{ID: "v", Type: models.MediaVideo, Views: 10, Interactions: 1, CreatedAt: epoch},
	}
}

func newAutomation(t *testing.T, profiles ...models.AutomationProfile) (*services.Automation, *services.Ledger, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	ledger := services.NewLedger(bus)
	catalog := services.NewCatalog(automationPosts(), ledger, newMemDisk(), bus)
	stores := services.NewStoreDirectory(models.SeedStores())
	return services.NewAutomation(profiles, catalog, ledger, stores, bus), ledger, bus
}

func profile(id string, svc models.Service, st models.Strategy, items int) models.AutomationProfile {
	return models.AutomationProfile{ID: id, Name: id, Service: svc, Interval: 30, Strategy: st, Active: true, MonitoredItems: items}
}

func ptr[T any](v T) *T { return &v }

func TestSeedAutomationTable(t *testing.T) {
	a, _, _ := newAutomation(t, models.SeedAutomationProfiles()...)
	list := a.List()
	require.Len(t, list, 6)
	assert.Equal(t, "Vid Feed Cycle", list[2].Name)
	assert.False(t, list[2].Active)
	assert.Equal(t, models.StrategyAICurated, list[3].Strategy)
}

func TestRotationStrategies(t *testing.T) {
	cases := []struct {
		name string
		p    models.AutomationProfile
		want []string
	}{
		{"chronological newest first", profile("1", models.ServiceMarketLook, models.StrategyChronological, 5), []string{"c", "b", "a"}},
		{"trending by interactions", profile("2", models.ServiceMarketHup, models.StrategyTrending, 2), []string{"b", "a"}},
		{"curated by engagement", profile("3", models.ServiceHATOo, models.StrategyAICurated, 2), []string{"c", "b"}},
		{"videos only", profile("4", models.ServiceMarketVID, models.StrategyChronological, 5), []string{"v"}},
		{"stores by products", profile("5", models.ServiceSouqStore, models.StrategyTrending, 2), []string{"m3", "m1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, _, _ := newAutomation(t, tc.p)
			rotated := a.Run(epoch, false)
			require.Len(t, rotated, 1)
			assert.Equal(t, tc.want, rotated[0].Display)
			assert.Equal(t, epoch, rotated[0].LastRun)
		})
	}
}

func TestTrendingMarkWinsOverInteractions(t *testing.T) {
	a, ledger, _ := newAutomation(t, profile("1", models.ServiceMarketLook, models.StrategyTrending, 3))
	_, err := ledger.ToggleTrend(models.RoleAdmin, "a")
	require.NoError(t, err)

	rotated := a.Run(epoch, false)
	require.Len(t, rotated, 1)
	assert.Equal(t, []string{"a", "b", "c"}, rotated[0].Display)
}

func TestRandomRotationKeepsCandidates(t *testing.T) {
	a, _, _ := newAutomation(t, profile("1", models.ServiceMarketLook, models.StrategyRandom, 2))
	rotated := a.Run(epoch, false)
	require.Len(t, rotated, 1)
	require.Len(t, rotated[0].Display, 2)
	assert.Subset(t, []string{"a", "b", "c"}, rotated[0].Display)
}

func TestRunOnlyRotatesDueProfiles(t *testing.T) {
	off := profile("2", models.ServiceMarketLook, models.StrategyChronological, 1)
	off.Active = false
	a, _, bus := newAutomation(t, profile("1", models.ServiceMarketLook, models.StrategyChronological, 1), off)

	var fired []services.AutomationEvent
	bus.Listen(event.AutomationRotated, func(p interface{}) { fired = append(fired, p.(services.AutomationEvent)) })

	assert.Len(t, a.Run(epoch, false), 1)
	assert.Empty(t, a.Run(epoch.Add(29*time.Minute), false))
	assert.Len(t, a.Run(epoch.Add(30*time.Minute), false), 1)
	require.Len(t, fired, 2)
	assert.Equal(t, "1", fired[0].ProfileID)
	assert.Equal(t, []string{"c"}, fired[0].Display)
}

func TestSyncForcesRotationForStaff(t *testing.T) {
	a, _, _ := newAutomation(t, profile("1", models.ServiceMarketLook, models.StrategyChronological, 1))
	a.Run(epoch, false)

	_, err := a.Sync(models.RoleImporter, epoch.Add(time.Minute))
	assert.ErrorIs(t, err, services.ErrForbidden)

	rotated, err := a.Sync(models.RoleTeam, epoch.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, rotated, 1)
	assert.Equal(t, epoch.Add(time.Minute), rotated[0].LastRun)
}

func TestUpdateValidatesProfile(t *testing.T) {
	a, _, _ := newAutomation(t, models.SeedAutomationProfiles()...)

	bad := []services.AutomationUpdate{
		{Interval: ptr(3)},
		{Interval: ptr(1445)},
		{Interval: ptr(62)},
		{Strategy: ptr("LOUDEST")},
		{MonitoredItems: ptr(0)},
		{MonitoredItems: ptr(models.MaxMonitoredItems + 1)},
	}
	for _, u := range bad {
		_, err := a.Update(models.RoleAdmin, "1", u)
		assert.ErrorIs(t, err, services.ErrInvalidAutomation)
	}
	assert.Equal(t, 60, a.List()[0].Interval)

	p, err := a.Update(models.RoleTeam, "1", services.AutomationUpdate{Interval: ptr(1440), Strategy: ptr("TRENDING"), Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 1440, p.Interval)
	assert.Equal(t, models.StrategyTrending, p.Strategy)
	assert.False(t, p.Active)

	_, err = a.Update(models.RoleAdmin, "99", services.AutomationUpdate{})
	assert.ErrorIs(t, err, services.ErrUnknownAutomation)
	_, err = a.Update(models.RoleMerchant, "1", services.AutomationUpdate{})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestToggleAutomation(t *testing.T) {
	a, _, _ := newAutomation(t, models.SeedAutomationProfiles()...)

	p, err := a.Toggle(models.RoleAdmin, "3")
	require.NoError(t, err)
	assert.True(t, p.Active)

	_, err = a.Toggle(models.RoleImporter, "3")
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = a.Toggle(models.RoleAdmin, "x")
	assert.ErrorIs(t, err, services.ErrUnknownAutomation)
}

func TestListIsACopy(t *testing.T) {
	a, _, _ := newAutomation(t, profile("1", models.ServiceMarketLook, models.StrategyChronological, 1))
	a.Run(epoch, false)

	list := a.List()
	list[0].Display[0] = "zzz"
	list[0].Active = false
	assert.Equal(t, []string{"c"}, a.List()[0].Display)
	assert.True(t, a.List()[0].Active)
}
