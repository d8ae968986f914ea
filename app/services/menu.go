package services

import "github.com/shashiranjanraj/souqhup/app/models"

// MenuItem is one row of the role-aware sidebar.
type MenuItem struct {
	Service models.Service
	Icon    string
	Label   string
	Roles   []models.Role
	Pro     bool
	Special bool
}

func (m MenuItem) visibleTo(r models.Role) bool {
	for _, role := range m.Roles {
		if role == r {
			return true
		}
	}
	return false
}

var (
	everyone  = []models.Role{models.RoleImporter, models.RoleMerchant, models.RoleAdmin, models.RoleTeam}
	importers = []models.Role{models.RoleImporter, models.RoleAdmin, models.RoleTeam}
	merchants = []models.Role{models.RoleMerchant, models.RoleAdmin, models.RoleTeam}
	staff     = []models.Role{models.RoleAdmin, models.RoleTeam}
)

// menu is the single sidebar definition for every role, in display order.
var menu = []MenuItem{
	{Service: models.ServiceControlPanel, Icon: "grid_view", Label: "Control Panel", Roles: everyone},
	{Service: models.ServiceMarketLook, Icon: "visibility", Label: "Market Look", Roles: everyone},
	{Service: models.ServiceMarketHup, Icon: "grid_view", Label: "Market Hup", Roles: everyone, Pro: true},
	{Service: models.ServiceMarketVID, Icon: "movie", Label: "Market VID", Roles: everyone, Pro: true},
	{Service: models.ServiceHATOo, Icon: "center_focus_strong", Label: "HATOo Vision", Roles: everyone, Pro: true},
	{Service: models.ServiceMerchantDashboard, Icon: "dashboard", Label: "Command Hub", Roles: staff, Pro: true},
	{Service: models.ServiceMerchantChannel, Icon: "storefront", Label: "My Store", Roles: merchants},
	{Service: models.ServiceSouqStore, Icon: "store", Label: "Stores", Roles: importers},
	{Service: models.ServiceTrends, Icon: "trending_up", Label: "Trends", Roles: everyone},
	{Service: models.ServiceAdminDashboard, Icon: "admin_panel_settings", Label: "Admin Terminal", Roles: staff},
	{Service: models.ServiceFavorites, Icon: "favorite", Label: "The Favorite", Roles: importers},
	{Service: models.ServiceMyMessage, Icon: "chat", Label: "My Message", Roles: everyone, Special: true},
	{Service: models.ServiceUserProfile, Icon: "settings", Label: "Settings", Roles: everyone},
}

// MenuFor returns the sidebar rows a role sees.
func MenuFor(r models.Role) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.visibleTo(r) {
			out = append(out, item)
		}
	}
	return out
}

// Screen is the top-level state of the view router.
type Screen string

const (
	ScreenLoggedOut Screen = "LOGGED_OUT"
	ScreenImporter  Screen = "IMPORTER"
	ScreenMerchant  Screen = "MERCHANT"
	ScreenAdmin     Screen = "ADMIN"
)

// Shell is the layout a role is rendered in and the pages it can show.
type Shell struct {
	Screen   Screen
	Pages    map[models.Service]bool
	Home     models.Service
	Fallback models.Service
	Accent   string
	Upgrades bool
}

// Renders reports whether the shell has a page for svc.
func (s Shell) Renders(svc models.Service) bool { return s.Pages[svc] }

func pageSet(svcs ...models.Service) map[models.Service]bool {
	out := make(map[models.Service]bool, len(svcs))
	for _, s := range svcs {
		out[s] = true
	}
	return out
}

var (
	importerShell = Shell{
		Screen: ScreenImporter,
		Pages: pageSet(
			models.ServiceMarketLook, models.ServiceMarketHup, models.ServiceMarketVID, models.ServiceHATOo,
			models.ServiceUserProfile, models.ServiceControlPanel, models.ServiceSouqStore,
			models.ServiceFavorites, models.ServiceTrends, models.ServiceMyMessage,
		),
		Home:     models.ServiceMarketLook,
		Fallback: models.ServiceMarketLook,
		Accent:   "#0df20d",
		Upgrades: true,
	}

	merchantShell = Shell{
		Screen: ScreenMerchant,
		Pages: pageSet(
			models.ServiceMerchantDashboard, models.ServiceMerchantChannel, models.ServiceUserProfile,
			models.ServiceControlPanel, models.ServiceMyMessage, models.ServiceFavorites, models.ServiceTrends,
			models.ServiceMarketLook, models.ServiceMarketHup, models.ServiceMarketVID, models.ServiceHATOo,
		),
		Home:     models.ServiceMerchantDashboard,
		Fallback: models.ServiceMerchantDashboard,
		Accent:   "#00f2ff",
		Upgrades: true,
	}

	adminShell = Shell{
		Screen: ScreenAdmin,
		Pages: pageSet(
			models.ServiceAdminDashboard, models.ServiceUserProfile, models.ServiceControlPanel,
			models.ServiceMyMessage, models.ServiceSouqStore, models.ServiceMarketLook, models.ServiceMarketHup,
			models.ServiceMarketVID, models.ServiceHATOo, models.ServiceFavorites, models.ServiceTrends,
			models.ServiceMerchantDashboard, models.ServiceMerchantChannel,
		),
		Home:     models.ServiceAdminDashboard,
		Fallback: models.ServiceAdminDashboard,
		Accent:   "#eab308",
	}
)

// ShellFor maps a role onto its shell. Team shares the admin shell.
func ShellFor(r models.Role) Shell {
	switch r {
	case models.RoleMerchant:
		return merchantShell
	case models.RoleAdmin, models.RoleTeam:
		return adminShell
	}
	return importerShell
}

// EntryService is the page every shell opens on.
const EntryService = models.ServiceControlPanel
