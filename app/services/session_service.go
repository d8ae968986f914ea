package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/repositories"
	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// SessionService owns login, logout, channel and profile changes of a
// device. Every change is written through to the store right away; write
// failures are logged and otherwise ignored.
type SessionService struct {
	repo  *repositories.StateRepository
	bus   *event.Bus
	locks *keyedMutex

	hashOnce    sync.Once
	defaultHash string
	hashErr     error
}

func NewSessionService(repo *repositories.StateRepository, bus *event.Bus) *SessionService {
	return &SessionService{repo: repo, bus: bus, locks: newKeyedMutex()}
}

// State returns the current state of a device.
func (s *SessionService) State(ctx context.Context, deviceID string) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()
	return s.load(ctx, deviceID)
}

func (s *SessionService) load(ctx context.Context, deviceID string) (models.SessionState, error) {
	state, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		logger.WithCtx(ctx).Warn("session: stored state unreadable, using defaults", "device_id", deviceID, "error", err)
	}

	if state.Admin.PasswordHash == "" {
		hash, err := s.seedHash()
		if err != nil {
			return state, fmt.Errorf("session: hash default admin password: %w", err)
		}
		state.Admin.PasswordHash = hash
	}
	return state, nil
}

func (s *SessionService) seedHash() (string, error) {
	s.hashOnce.Do(func() {
		s.defaultHash, s.hashErr = auth.HashPassword(models.DefaultAdminPassword)
	})
	return s.defaultHash, s.hashErr
}

// Login signs the device in as role from the login surface it is on.
// Only the Admin role on the admin surface is checked against a password.
func (s *SessionService) Login(ctx context.Context, deviceID string, role models.Role, password string) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	state, err := s.load(ctx, deviceID)
	if err != nil {
		return state, err
	}
	if state.LoggedIn {
		return state, ErrAlreadyAuthenticated
	}
	if !state.Channel.Offers(role) {
		return state, ErrRoleNotOffered
	}
	if state.Channel == models.ChannelAdmin && role == models.RoleAdmin &&
		!auth.CheckPassword(state.Admin.PasswordHash, password) {
		return state, ErrInvalidCredentials
	}

	state.LoggedIn = true
	state.Role = role
	state.Channel = role.Channel()

	s.persist(ctx, deviceID, "logged_in", s.repo.SaveLoggedIn(ctx, deviceID, true))
	s.persist(ctx, deviceID, "role", s.repo.SaveRole(ctx, deviceID, role))
	s.persist(ctx, deviceID, "channel", s.repo.SaveChannel(ctx, deviceID, state.Channel))

	logger.WithCtx(ctx).Info("session: login", "device_id", deviceID, "role", role)
	s.bus.Fire(event.SessionLogin, SessionEvent{DeviceID: deviceID, Role: role})
	return state, nil
}

// Logout clears the authentication flag. Role and channel are kept so the
// next login starts on the last surface.
func (s *SessionService) Logout(ctx context.Context, deviceID string) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	state, err := s.load(ctx, deviceID)
	if err != nil || !state.LoggedIn {
		return state, err
	}

	state.LoggedIn = false
	s.persist(ctx, deviceID, "logged_in", s.repo.SaveLoggedIn(ctx, deviceID, false))

	logger.WithCtx(ctx).Info("session: logout", "device_id", deviceID, "role", state.Role)
	s.bus.Fire(event.SessionLogout, SessionEvent{DeviceID: deviceID, Role: state.Role})
	return state, nil
}

// SwitchChannel flips the login surface. It does nothing while signed in.
func (s *SessionService) SwitchChannel(ctx context.Context, deviceID string) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	state, err := s.load(ctx, deviceID)
	if err != nil || state.LoggedIn {
		return state, err
	}

	state.Channel = state.Channel.Toggle()
	s.persist(ctx, deviceID, "channel", s.repo.SaveChannel(ctx, deviceID, state.Channel))
	return state, nil
}

// SaveImporter replaces the importer profile. The device must be signed in
// as an importer.
func (s *SessionService) SaveImporter(ctx context.Context, deviceID string, p models.ImporterProfile) (models.SessionState, error) {
	return s.saveProfile(ctx, deviceID, func(state *models.SessionState) error {
		if state.Role != models.RoleImporter {
			return ErrForbidden
		}
		plan, err := models.ParsePlan(models.RoleImporter, string(p.Plan))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		p.Plan = plan
		state.Importer = p
		s.persist(ctx, deviceID, "importer_profile", s.repo.SaveImporter(ctx, deviceID, p))
		return nil
	})
}

// SaveMerchant replaces the merchant profile. Posts already published keep
// the name they were published under.
func (s *SessionService) SaveMerchant(ctx context.Context, deviceID string, p models.MerchantProfile) (models.SessionState, error) {
	return s.saveProfile(ctx, deviceID, func(state *models.SessionState) error {
		if state.Role != models.RoleMerchant {
			return ErrForbidden
		}
		plan, err := models.ParsePlan(models.RoleMerchant, string(p.Plan))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		p.Plan = plan
		state.Merchant = p
		s.persist(ctx, deviceID, "merchant_profile", s.repo.SaveMerchant(ctx, deviceID, p))
		return nil
	})
}

// AdminUpdate is the editable part of the admin profile. An empty Password
// keeps the current one.
type AdminUpdate struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Avatar   string `json:"avatar"   validate:"required,url"`
	Password string `json:"password" validate:"nullable,min=4,max=72"`
}

// SaveAdmin updates the shared admin terminal profile. Admin and Team may
// both edit it.
func (s *SessionService) SaveAdmin(ctx context.Context, deviceID string, u AdminUpdate) (models.SessionState, error) {
	return s.saveProfile(ctx, deviceID, func(state *models.SessionState) error {
		if !state.Role.Staff() {
			return ErrForbidden
		}
		admin := state.Admin
		admin.Name = u.Name
		admin.Avatar = u.Avatar
		if u.Password != "" {
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return fmt.Errorf("session: hash admin password: %w", err)
			}
			admin.PasswordHash = hash
		}
		state.Admin = admin
		s.persist(ctx, deviceID, "admin_profile", s.repo.SaveAdmin(ctx, deviceID, admin))
		return nil
	})
}

func (s *SessionService) saveProfile(ctx context.Context, deviceID string, apply func(*models.SessionState) error) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	state, err := s.load(ctx, deviceID)
	if err != nil {
		return state, err
	}
	if !state.LoggedIn {
		return state, ErrNotAuthenticated
	}
	if err := apply(&state); err != nil {
		return state, err
	}

	s.bus.Fire(event.ProfileUpdated, ProfileEvent{DeviceID: deviceID, Role: state.Role})
	return state, nil
}

// Reset forgets everything stored for a device, which brings back the
// seeded profiles and the signed-out public surface.
func (s *SessionService) Reset(ctx context.Context, deviceID string) (models.SessionState, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	before, _ := s.repo.Load(ctx, deviceID)
	if err := s.repo.Forget(ctx, deviceID); err != nil {
		return before, fmt.Errorf("session: reset: %w", err)
	}
	if before.LoggedIn {
		s.bus.Fire(event.SessionLogout, SessionEvent{DeviceID: deviceID, Role: before.Role})
	}
	return s.load(ctx, deviceID)
}

func (s *SessionService) persist(ctx context.Context, deviceID, field string, err error) {
	if err != nil {
		logger.WithCtx(ctx).Warn("session: write-through failed", "device_id", deviceID, "field", field, "error", err)
	}
}
