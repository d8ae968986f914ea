package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// NavState is the per-device page selection inside a shell. It is not
// persisted; a new login starts over at the entry page.
type NavState struct {
	Active         models.Service `json:"active"`
	MenuOpen       bool           `json:"menu_open"`
	Collapsed      bool           `json:"collapsed"`
	UpgradeOpen    bool           `json:"upgrade_open"`
	UpgradeService models.Service `json:"upgrade_service,omitempty"`

	seen time.Time
}

func entryNav() *NavState { return &NavState{Active: EntryService, seen: time.Now()} }

// Outcome is what a navigation request did.
type Outcome string

const (
	OutcomeOpened        Outcome = "opened"
	OutcomeUpgradePrompt Outcome = "upgrade_prompt"
)

type Navigation struct {
	Outcome Outcome        `json:"outcome"`
	Active  models.Service `json:"active"`
}

// MenuEntry is a sidebar row as one device sees it.
type MenuEntry struct {
	Service models.Service `json:"service"`
	Slug    string         `json:"slug"`
	Label   string         `json:"label"`
	Icon    string         `json:"icon"`
	Pro     bool           `json:"pro"`
	Special bool           `json:"special"`
	Access  Access         `json:"access"`
	Enabled bool           `json:"enabled"`
	Locked  bool           `json:"locked"`
	Active  bool           `json:"active"`
}

// View is everything a client needs to draw the current screen.
type View struct {
	Screen       Screen           `json:"screen"`
	LoginSurface models.Channel   `json:"login_surface,omitempty"`
	LoginRoles   []models.Role    `json:"login_roles,omitempty"`
	Role         models.Role      `json:"role,omitempty"`
	Plan         models.Plan      `json:"plan,omitempty"`
	Page         models.Service   `json:"page,omitempty"`
	Identity     *models.Identity `json:"identity,omitempty"`
	Badge        string           `json:"badge,omitempty"`
	Accent       string           `json:"accent,omitempty"`
	MenuOpen     bool             `json:"menu_open"`
	Collapsed    bool             `json:"collapsed"`
	UpgradeOpen  bool             `json:"upgrade_open"`
	Menu         []MenuEntry      `json:"menu,omitempty"`
}

// ViewService maps (signed in, role, active page) onto a shell and page.
type ViewService struct {
	sessions *SessionService
	flags    *FlagService
	bus      *event.Bus

	mu  sync.Mutex
	nav map[string]*NavState
}

// NewViewService resets the page selection of a device on every login and
// drops it on logout.
func NewViewService(sessions *SessionService, flags *FlagService, bus *event.Bus) *ViewService {
	v := &ViewService{sessions: sessions, flags: flags, bus: bus, nav: map[string]*NavState{}}

	bus.Listen(event.SessionLogin, func(payload interface{}) {
		if e, ok := payload.(SessionEvent); ok {
			v.mu.Lock()
			v.nav[e.DeviceID] = entryNav()
			v.mu.Unlock()
		}
	})
	bus.Listen(event.SessionLogout, func(payload interface{}) {
		if e, ok := payload.(SessionEvent); ok {
			v.mu.Lock()
			delete(v.nav, e.DeviceID)
			v.mu.Unlock()
		}
	})
	return v
}

// navOf returns the nav state of a device, creating it on first use.
// Callers hold v.mu.
func (v *ViewService) navOf(deviceID string) *NavState {
	n, ok := v.nav[deviceID]
	if !ok {
		n = entryNav()
		v.nav[deviceID] = n
	}
	n.seen = time.Now()
	return n
}

// Prune drops the nav state of devices not seen since cutoff and returns
// how many were dropped. Such a device starts over at the entry page.
func (v *ViewService) Prune(cutoff time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := 0
	for id, nav := range v.nav {
		if nav.seen.Before(cutoff) {
			delete(v.nav, id)
			n++
		}
	}
	return n
}

// Navigate opens svc in the current shell. A plan-locked service opens the
// upgrade prompt and leaves the active page alone. When the request comes
// from the overlay menu, a successful open also closes that menu.
func (v *ViewService) Navigate(ctx context.Context, deviceID string, svc models.Service, fromOverlay bool) (Navigation, error) {
	state, err := v.sessions.State(ctx, deviceID)
	if err != nil {
		return Navigation{}, err
	}

	authErr := Authorize(state, v.flags, svc)

	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case authErr == nil:
		n := v.navOf(deviceID)
		n.Active = svc
		if fromOverlay {
			n.MenuOpen = false
		}
		return Navigation{Outcome: OutcomeOpened, Active: n.Active}, nil

	case errors.Is(authErr, ErrUpgradeRequired):
		n := v.navOf(deviceID)
		if ShellFor(state.Role).Upgrades {
			n.UpgradeOpen = true
			n.UpgradeService = svc
		}
		logger.WithCtx(ctx).Info("view: upgrade prompt", "device_id", deviceID, "role", state.Role, "service", svc)
		v.bus.Fire(event.UpgradePrompt, UpgradeEvent{DeviceID: deviceID, Role: state.Role, Service: svc})
		return Navigation{Outcome: OutcomeUpgradePrompt, Active: n.Active}, nil
	}
	return Navigation{}, authErr
}

// Home opens the brand target of the current shell.
func (v *ViewService) Home(ctx context.Context, deviceID string) (Navigation, error) {
	state, err := v.sessions.State(ctx, deviceID)
	if err != nil {
		return Navigation{}, err
	}
	if !state.LoggedIn {
		return Navigation{}, ErrNotAuthenticated
	}
	return v.Navigate(ctx, deviceID, ShellFor(state.Role).Home, false)
}

// SetMenuOpen shows or hides the overlay menu.
func (v *ViewService) SetMenuOpen(deviceID string, open bool) {
	v.mu.Lock()
	v.navOf(deviceID).MenuOpen = open
	v.mu.Unlock()
}

// ToggleCollapse flips the collapsed sidebar and returns the new value.
func (v *ViewService) ToggleCollapse(deviceID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := v.navOf(deviceID)
	n.Collapsed = !n.Collapsed
	return n.Collapsed
}

func (v *ViewService) DismissUpgrade(deviceID string) {
	v.mu.Lock()
	n := v.navOf(deviceID)
	n.UpgradeOpen = false
	n.UpgradeService = ""
	v.mu.Unlock()
}

// Nav returns a copy of the nav state of a device.
func (v *ViewService) Nav(deviceID string) NavState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.navOf(deviceID)
}

// Resolve builds the view of a device.
func (v *ViewService) Resolve(ctx context.Context, deviceID string) (View, error) {
	state, err := v.sessions.State(ctx, deviceID)
	if err != nil {
		return View{}, err
	}
	return v.resolve(deviceID, state), nil
}

func (v *ViewService) resolve(deviceID string, state models.SessionState) View {
	if !state.LoggedIn {
		view := View{Screen: ScreenLoggedOut, LoginSurface: state.Channel}
		for _, r := range models.Roles {
			if state.Channel.Offers(r) {
				view.LoginRoles = append(view.LoginRoles, r)
			}
		}
		return view
	}

	shell := ShellFor(state.Role)
	nav := v.Nav(deviceID)

	page := nav.Active
	if !shell.Renders(page) {
		page = shell.Fallback
	}

	identity := state.Identity()
	view := View{
		Screen:      shell.Screen,
		Role:        state.Role,
		Plan:        state.Plan(),
		Page:        page,
		Identity:    &identity,
		Badge:       models.Badge(state.Role, state.Plan()),
		Accent:      shell.Accent,
		MenuOpen:    nav.MenuOpen,
		Collapsed:   nav.Collapsed,
		UpgradeOpen: nav.UpgradeOpen,
	}

	for _, item := range MenuFor(state.Role) {
		access := Gate(v.flags.IsEnabled(item.Service), IsLocked(state.Role, state.Plan(), item.Service))
		view.Menu = append(view.Menu, MenuEntry{
			Service: item.Service,
			Slug:    item.Service.Slug(),
			Label:   item.Label,
			Icon:    item.Icon,
			Pro:     item.Pro,
			Special: item.Special,
			Access:  access,
			Enabled: access != AccessDisabled,
			Locked:  access == AccessLocked,
			Active:  item.Service == page,
		})
	}
	return view
}
