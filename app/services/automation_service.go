package services

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/collection"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// AutomationUpdate changes part of a profile. Nil fields are kept.
type AutomationUpdate struct {
	Interval       *int    `json:"interval"`
	Strategy       *string `json:"strategy"`
	Active         *bool   `json:"active"`
	MonitoredItems *int    `json:"monitored_items"`
}

// Automation rotates what each service puts on display. The table is
// process-wide and edited from the admin shell.
type Automation struct {
	mu       sync.Mutex
	profiles []models.AutomationProfile

	catalog *Catalog
	ledger  *Ledger
	stores  *StoreDirectory
	bus     *event.Bus
	shuffle func(n int, swap func(i, j int))
}

func NewAutomation(seed []models.AutomationProfile, catalog *Catalog, ledger *Ledger, stores *StoreDirectory, bus *event.Bus) *Automation {
	profiles := make([]models.AutomationProfile, len(seed))
	copy(profiles, seed)
	return &Automation{profiles: profiles, catalog: catalog, ledger: ledger, stores: stores, bus: bus, shuffle: rand.Shuffle}
}

// List returns a copy of every profile in table order.
func (a *Automation) List() []models.AutomationProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return collection.Map(a.profiles, copyProfile)
}

func copyProfile(p models.AutomationProfile) models.AutomationProfile {
	p.Display = slices.Clone(p.Display)
	return p
}

func (a *Automation) find(id string) (int, error) {
	i := slices.IndexFunc(a.profiles, func(p models.AutomationProfile) bool { return p.ID == id })
	if i < 0 {
		return 0, ErrUnknownAutomation
	}
	return i, nil
}

// Update applies u to profile id. The whole update is refused when any
// field is out of range.
func (a *Automation) Update(actor models.Role, id string, u AutomationUpdate) (models.AutomationProfile, error) {
	if !actor.Staff() {
		return models.AutomationProfile{}, ErrForbidden
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	i, err := a.find(id)
	if err != nil {
		return models.AutomationProfile{}, err
	}
	p := a.profiles[i]

	if u.Interval != nil {
		n := *u.Interval
		if n < models.MinAutomationInterval || n > models.MaxAutomationInterval || n%models.AutomationIntervalStep != 0 {
			return models.AutomationProfile{}, fmt.Errorf("%w: interval must be %d to %d minutes in steps of %d", ErrInvalidAutomation,
				models.MinAutomationInterval, models.MaxAutomationInterval, models.AutomationIntervalStep)
		}
		p.Interval = n
	}
	if u.Strategy != nil {
		st, err := models.ParseStrategy(*u.Strategy)
		if err != nil {
			return models.AutomationProfile{}, fmt.Errorf("%w: %v", ErrInvalidAutomation, err)
		}
		p.Strategy = st
	}
	if u.MonitoredItems != nil {
		n := *u.MonitoredItems
		if n < 1 || n > models.MaxMonitoredItems {
			return models.AutomationProfile{}, fmt.Errorf("%w: monitored items must be 1 to %d", ErrInvalidAutomation, models.MaxMonitoredItems)
		}
		p.MonitoredItems = n
	}
	if u.Active != nil {
		p.Active = *u.Active
	}

	a.profiles[i] = p
	logger.Info("automation: updated", "profile", p.ID, "interval", p.Interval, "strategy", p.Strategy, "active", p.Active)
	return copyProfile(p), nil
}

// Toggle flips whether profile id runs.
func (a *Automation) Toggle(actor models.Role, id string) (models.AutomationProfile, error) {
	if !actor.Staff() {
		return models.AutomationProfile{}, ErrForbidden
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	i, err := a.find(id)
	if err != nil {
		return models.AutomationProfile{}, err
	}
	a.profiles[i].Active = !a.profiles[i].Active
	return copyProfile(a.profiles[i]), nil
}

// Sync rotates every active profile now, due or not.
func (a *Automation) Sync(actor models.Role, now time.Time) ([]models.AutomationProfile, error) {
	if !actor.Staff() {
		return nil, ErrForbidden
	}
	return a.Run(now, true), nil
}

// Run rotates the active profiles that are due at now, or all active ones
// when force is set, and returns the rotated profiles.
func (a *Automation) Run(now time.Time, force bool) []models.AutomationProfile {
	a.mu.Lock()
	var rotated []models.AutomationProfile
	for i := range a.profiles {
		p := &a.profiles[i]
		if !p.Active || (!force && !p.Due(now)) {
			continue
		}
		p.Display = a.pick(*p)
		p.LastRun = now
		rotated = append(rotated, copyProfile(*p))
	}
	a.mu.Unlock()

	for _, p := range rotated {
		a.bus.Fire(event.AutomationRotated, AutomationEvent{ProfileID: p.ID, Service: p.Service, Strategy: p.Strategy, Display: slices.Clone(p.Display)})
	}
	return rotated
}

// candidate is anything a profile can put on display.
type candidate struct {
	id           string
	created      time.Time
	views        int
	interactions int
	boosted      bool
}

// candidates lists what svc can display: storefronts for the directory and
// profile pages, posts for the rest.
func (a *Automation) candidates(svc models.Service) []candidate {
	switch svc {
	case models.ServiceSouqStore, models.ServiceUserProfile:
		return collection.Map(a.stores.List(), func(s models.Store) candidate {
			return candidate{id: s.ID, views: s.Products, interactions: s.Products, boosted: s.Verified}
		})
	}

	posts := a.catalog.All()
	switch svc {
	case models.ServiceMarketLook, models.ServiceMarketHup:
		posts = collection.Filter(posts, func(p models.Post) bool { return p.Type == models.MediaImage })
	case models.ServiceMarketVID:
		posts = collection.Filter(posts, func(p models.Post) bool { return p.Type == models.MediaVideo })
	}
	return collection.Map(posts, func(p models.Post) candidate {
		return candidate{id: p.ID, created: p.CreatedAt, views: p.Views, interactions: p.Interactions, boosted: a.ledger.IsTrending(p.ID)}
	})
}

// pick orders the candidates of p by its strategy and keeps the first
// MonitoredItems ids.
func (a *Automation) pick(p models.AutomationProfile) []string {
	items := a.candidates(p.Service)

	switch p.Strategy {
	case models.StrategyRandom:
		a.shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	case models.StrategyChronological:
		slices.SortStableFunc(items, func(x, y candidate) int { return y.created.Compare(x.created) })
	case models.StrategyTrending:
		slices.SortStableFunc(items, func(x, y candidate) int {
			if x.boosted != y.boosted {
				if x.boosted {
					return -1
				}
				return 1
			}
			return cmp.Compare(y.interactions, x.interactions)
		})
	case models.StrategyAICurated:
		// Engagement rate, interactions per thousand views.
		rate := func(c candidate) int {
			if c.views == 0 {
				return 0
			}
			return c.interactions * 1000 / c.views
		}
		slices.SortStableFunc(items, func(x, y candidate) int { return cmp.Compare(rate(y), rate(x)) })
	}

	if len(items) > p.MonitoredItems {
		items = items[:p.MonitoredItems]
	}
	return collection.Map(items, func(c candidate) string { return c.id })
}
