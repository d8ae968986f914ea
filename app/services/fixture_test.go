package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/repositories"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/crypt"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

type fixture struct {
	bus      *event.Bus
	store    *cache.Memory
	sessions *services.SessionService
	flags    *services.FlagService
	view     *services.ViewService
	ledger   *services.Ledger
	chat     *services.ChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	box, err := crypt.New("test-key")
	require.NoError(t, err)

	f := &fixture{bus: event.NewBus(), store: cache.NewMemory()}
	f.sessions = services.NewSessionService(repositories.NewStateRepository(f.store, box), f.bus)
	f.flags = services.NewFlagService(nil, f.bus)
	f.view = services.NewViewService(f.sessions, f.flags, f.bus)
	f.ledger = services.NewLedger(f.bus)
	f.chat = services.NewChatService(f.bus)
	return f
}

// login signs device in from whichever surface offers role.
func (f *fixture) login(t *testing.T, device string, role models.Role) models.SessionState {
	t.Helper()
	ctx := context.Background()

	state, err := f.sessions.State(ctx, device)
	require.NoError(t, err)
	if !state.Channel.Offers(role) {
		_, err = f.sessions.SwitchChannel(ctx, device)
		require.NoError(t, err)
	}
	state, err = f.sessions.Login(ctx, device, role, models.DefaultAdminPassword)
	require.NoError(t, err)
	return state
}

func (f *fixture) setImporterPlan(t *testing.T, device string, plan models.Plan) {
	t.Helper()
	p := models.DefaultImporterProfile()
	p.Plan = plan
	_, err := f.sessions.SaveImporter(context.Background(), device, p)
	require.NoError(t, err)
}

func (f *fixture) setMerchantPlan(t *testing.T, device string, plan models.Plan) {
	t.Helper()
	p := models.DefaultMerchantProfile()
	p.Plan = plan
	_, err := f.sessions.SaveMerchant(context.Background(), device, p)
	require.NoError(t, err)
}
