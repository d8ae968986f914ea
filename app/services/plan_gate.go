package services

import "github.com/shashiranjanraj/souqhup/app/models"

var (
	proServices = map[models.Service]bool{
		models.ServiceMarketHup: true,
		models.ServiceMarketVID: true,
		models.ServiceHATOo:     true,
	}

	freeImporterServices = map[models.Service]bool{
		models.ServiceMarketLook:   true,
		models.ServiceControlPanel: true,
		models.ServiceUserProfile:  true,
		models.ServiceMyMessage:    true,
		models.ServiceFavorites:    true,
		models.ServiceSouqStore:    true,
		models.ServiceTrends:       true,
	}
)

// IsLocked reports whether the plan of role keeps svc behind an upgrade
// prompt. Staff roles are never locked.
func IsLocked(role models.Role, plan models.Plan, svc models.Service) bool {
	if plan != models.PlanFree {
		return false
	}
	switch role {
	case models.RoleMerchant:
		return proServices[svc]
	case models.RoleImporter:
		return !freeImporterServices[svc]
	}
	return false
}

// Access is how a navigation control presents a service.
type Access string

const (
	AccessOpen     Access = "open"
	AccessLocked   Access = "locked"
	AccessDisabled Access = "disabled"
)

// Gate combines the feature flag with the plan lock. A disabled service is
// never shown as locked.
func Gate(enabled, locked bool) Access {
	switch {
	case !enabled:
		return AccessDisabled
	case locked:
		return AccessLocked
	}
	return AccessOpen
}

// Authorize checks whether the signed-in state may use svc right now.
func Authorize(state models.SessionState, flags *FlagService, svc models.Service) error {
	if !state.LoggedIn {
		return ErrNotAuthenticated
	}
	if !ShellFor(state.Role).Renders(svc) {
		return ErrServiceUnavailable
	}
	switch Gate(flags.IsEnabled(svc), IsLocked(state.Role, state.Plan(), svc)) {
	case AccessDisabled:
		return ErrServiceDisabled
	case AccessLocked:
		return ErrUpgradeRequired
	}
	return nil
}
