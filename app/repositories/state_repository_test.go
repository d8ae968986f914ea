package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/repositories"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/crypt"
)

func newRepo(t *testing.T) (*repositories.StateRepository, *cache.Memory) {
	t.Helper()
	box, err := crypt.New("test-key")
	require.NoError(t, err)
	store := cache.NewMemory()
	return repositories.NewStateRepository(store, box), store
}

func TestLoadDefaultsOnMiss(t *testing.T) {
	repo, _ := newRepo(t)

	state, err := repo.Load(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSessionState(), state)
}

func TestWriteThroughPerKey(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	require.NoError(t, repo.SaveLoggedIn(ctx, "d1", true))
	require.NoError(t, repo.SaveRole(ctx, "d1", models.RoleMerchant))
	require.NoError(t, repo.SaveChannel(ctx, "d1", models.ChannelPublic))

	raw, ok, _ := store.Get(ctx, "device:d1:souqhup_userRole")
	assert.True(t, ok)
	assert.Equal(t, "MERCHANT", raw)

	merchant := models.DefaultMerchantProfile()
	merchant.Plan = models.PlanFree
	require.NoError(t, repo.SaveMerchant(ctx, "d1", merchant))

	state, err := repo.Load(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, state.LoggedIn)
	assert.Equal(t, models.RoleMerchant, state.Role)
	assert.Equal(t, models.PlanFree, state.Merchant.Plan)

	other, err := repo.Load(ctx, "d2")
	require.NoError(t, err)
	assert.False(t, other.LoggedIn)
}

func TestAdminProfileIsSealed(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	admin := models.DefaultAdminProfile()
	admin.PasswordHash = "hash-value"
	require.NoError(t, repo.SaveAdmin(ctx, "d1", admin))

	raw, _, _ := store.Get(ctx, "device:d1:souqhup_adminProfile")
	assert.NotContains(t, raw, "hash-value")

	state, err := repo.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "hash-value", state.Admin.PasswordHash)
}

func TestCorruptKeysFallBack(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	require.NoError(t, store.Set(ctx, "device:d1:souqhup_userProfile", "{", 0))
	require.NoError(t, store.Set(ctx, "device:d1:souqhup_userRole", "GUEST", 0))

	state, err := repo.Load(ctx, "d1")
	assert.Error(t, err)
	assert.Equal(t, models.DefaultImporterProfile(), state.Importer)
	assert.Equal(t, models.RoleImporter, state.Role)
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	require.NoError(t, repo.SaveLoggedIn(ctx, "d1", true))
	require.NoError(t, repo.Forget(ctx, "d1"))
	assert.Equal(t, 0, store.Len())
}

func TestNotificationSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	n, err := repo.LoadNotifications(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNotificationSettings(), n)

	n.SMSAlerts = true
	require.NoError(t, repo.SaveNotifications(ctx, "d1", n))
	got, err := repo.LoadNotifications(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, got.SMSAlerts)

	require.NoError(t, store.Set(ctx, "device:d1:souqhup_notificationSettings", "{", 0))
	got, err = repo.LoadNotifications(ctx, "d1")
	assert.Error(t, err)
	assert.Equal(t, models.DefaultNotificationSettings(), got)

	require.NoError(t, repo.Forget(ctx, "d1"))
	assert.Equal(t, 0, store.Len())
}
