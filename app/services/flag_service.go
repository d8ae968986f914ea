package services

import (
	"sync"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// Flag is one row of the feature flag table.
type Flag struct {
	Service   models.Service `json:"service"`
	Slug      string         `json:"slug"`
	Enabled   bool           `json:"enabled"`
	Protected bool           `json:"protected"`
}

// FlagService is the process-wide service kill switch. It is shared by
// every device and every shell.
type FlagService struct {
	mu      sync.RWMutex
	enabled map[models.Service]bool
	bus     *event.Bus
}

// NewFlagService starts with every service enabled, then applies initial,
// keyed by service name or slug. Unknown names are logged and skipped.
func NewFlagService(initial map[string]bool, bus *event.Bus) *FlagService {
	f := &FlagService{enabled: make(map[models.Service]bool, len(models.Services)), bus: bus}
	for _, svc := range models.Services {
		f.enabled[svc] = true
	}
	for name, on := range initial {
		svc, err := models.ParseService(name)
		if err != nil {
			logger.Warn("flags: ignoring unknown service", "service", name)
			continue
		}
		if protectedFlag(svc) {
			continue
		}
		f.enabled[svc] = on
	}
	return f
}

// protectedFlag reports services whose flag cannot be turned off. Disabling
// the admin dashboard would remove the only place flags are managed.
func protectedFlag(svc models.Service) bool {
	return svc == models.ServiceAdminDashboard
}

func (f *FlagService) IsEnabled(svc models.Service) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.enabled[svc]
}

// SetEnabled changes one flag. Only the roles of the admin shell may call it.
func (f *FlagService) SetEnabled(actor models.Role, svc models.Service, on bool) error {
	if !actor.Staff() {
		return ErrForbidden
	}
	if protectedFlag(svc) {
		return ErrFlagProtected
	}

	f.mu.Lock()
	changed := f.enabled[svc] != on
	f.enabled[svc] = on
	f.mu.Unlock()

	if changed {
		logger.Info("flags: changed", "service", svc, "enabled", on)
		f.bus.Fire(event.FlagChanged, FlagEvent{Service: svc, Enabled: on})
	}
	return nil
}

// List returns every flag in catalog order.
func (f *FlagService) List() []Flag {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Flag, 0, len(models.Services))
	for _, svc := range models.Services {
		out = append(out, Flag{Service: svc, Slug: svc.Slug(), Enabled: f.enabled[svc], Protected: protectedFlag(svc)})
	}
	return out
}
