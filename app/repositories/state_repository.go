package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/crypt"
)

// Persisted keys. Each device gets its own namespace.
const (
	KeyLoggedIn        = "souqhup_isLoggedIn"
	KeyRole            = "souqhup_userRole"
	KeyChannel         = "souqhup_loginType"
	KeyAdminProfile    = "souqhup_adminProfile"
	KeyUserProfile     = "souqhup_userProfile"
	KeyMerchantProfile = "souqhup_merchantProfile"
	KeyNotifications   = "souqhup_notificationSettings"
)

// StateKey is the store key of name for a device.
func StateKey(deviceID, name string) string {
	return "device:" + deviceID + ":" + name
}

// StateRepository reads and writes device session state, one key per field.
// The admin profile is sealed before it is written.
type StateRepository struct {
	store cache.Store
	box   *crypt.Box
}

func NewStateRepository(store cache.Store, box *crypt.Box) *StateRepository {
	return &StateRepository{store: store, box: box}
}

// Load returns the persisted state of deviceID. Missing or unreadable keys
// fall back to their defaults; the returned error reports the first
// problem seen so callers can log it.
func (r *StateRepository) Load(ctx context.Context, deviceID string) (models.SessionState, error) {
	state := models.DefaultSessionState()
	var errs []error

	if raw, ok, err := r.store.Get(ctx, StateKey(deviceID, KeyLoggedIn)); err != nil {
		errs = append(errs, err)
	} else if ok {
		state.LoggedIn, _ = strconv.ParseBool(raw)
	}

	if raw, ok, err := r.store.Get(ctx, StateKey(deviceID, KeyRole)); err != nil {
		errs = append(errs, err)
	} else if role, perr := models.ParseRole(raw); ok && perr == nil {
		state.Role = role
	}

	if raw, ok, err := r.store.Get(ctx, StateKey(deviceID, KeyChannel)); err != nil {
		errs = append(errs, err)
	} else if ch := models.Channel(raw); ok && ch.Valid() {
		state.Channel = ch
	}

	var importer models.ImporterProfile
	if ok, err := cache.GetJSON(ctx, r.store, StateKey(deviceID, KeyUserProfile), &importer); err != nil {
		errs = append(errs, err)
	} else if ok {
		state.Importer = importer
	}

	var merchant models.MerchantProfile
	if ok, err := cache.GetJSON(ctx, r.store, StateKey(deviceID, KeyMerchantProfile), &merchant); err != nil {
		errs = append(errs, err)
	} else if ok {
		state.Merchant = merchant
	}

	if raw, ok, err := r.store.Get(ctx, StateKey(deviceID, KeyAdminProfile)); err != nil {
		errs = append(errs, err)
	} else if ok {
		var admin models.AdminProfile
		if err := r.box.OpenJSON(raw, &admin); err != nil {
			errs = append(errs, err)
		} else {
			state.Admin = admin
		}
	}

	return state, errors.Join(errs...)
}

func (r *StateRepository) SaveLoggedIn(ctx context.Context, deviceID string, v bool) error {
	return r.store.Set(ctx, StateKey(deviceID, KeyLoggedIn), strconv.FormatBool(v), 0)
}

func (r *StateRepository) SaveRole(ctx context.Context, deviceID string, role models.Role) error {
	return r.store.Set(ctx, StateKey(deviceID, KeyRole), string(role), 0)
}

func (r *StateRepository) SaveChannel(ctx context.Context, deviceID string, ch models.Channel) error {
	return r.store.Set(ctx, StateKey(deviceID, KeyChannel), string(ch), 0)
}

func (r *StateRepository) SaveImporter(ctx context.Context, deviceID string, p models.ImporterProfile) error {
	return cache.SetJSON(ctx, r.store, StateKey(deviceID, KeyUserProfile), p, 0)
}

func (r *StateRepository) SaveMerchant(ctx context.Context, deviceID string, p models.MerchantProfile) error {
	return cache.SetJSON(ctx, r.store, StateKey(deviceID, KeyMerchantProfile), p, 0)
}

func (r *StateRepository) SaveAdmin(ctx context.Context, deviceID string, p models.AdminProfile) error {
	sealed, err := r.box.SealJSON(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, StateKey(deviceID, KeyAdminProfile), sealed, 0)
}

// LoadNotifications returns the alert settings of deviceID, or the defaults
// when none are stored or the stored value is unreadable.
func (r *StateRepository) LoadNotifications(ctx context.Context, deviceID string) (models.NotificationSettings, error) {
	var n models.NotificationSettings
	ok, err := cache.GetJSON(ctx, r.store, StateKey(deviceID, KeyNotifications), &n)
	if err != nil || !ok {
		return models.DefaultNotificationSettings(), err
	}
	return n, nil
}

func (r *StateRepository) SaveNotifications(ctx context.Context, deviceID string, n models.NotificationSettings) error {
	return cache.SetJSON(ctx, r.store, StateKey(deviceID, KeyNotifications), n, 0)
}

// Forget removes every key of deviceID.
func (r *StateRepository) Forget(ctx context.Context, deviceID string) error {
	keys := []string{KeyLoggedIn, KeyRole, KeyChannel, KeyAdminProfile, KeyUserProfile, KeyMerchantProfile, KeyNotifications}
	for i, k := range keys {
		keys[i] = StateKey(deviceID, k)
	}
	return r.store.Del(ctx, keys...)
}
