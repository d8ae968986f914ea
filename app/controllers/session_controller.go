package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type SessionController struct {
	sessions *services.SessionService
}

func NewSessionController(sessions *services.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

// Show returns the session state of the device.
func (s *SessionController) Show(c *ctx.Context) {
	state, err := s.sessions.State(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(state.Public())
}

type loginInput struct {
	Role     string `json:"role"     validate:"required"`
	Password string `json:"password" validate:"max=72"`
}

// Login signs the device in on its current login surface.
func (s *SessionController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		c.ValidationError(map[string]string{"role": "The selected role is invalid."})
		return
	}

	state, err := s.sessions.Login(c.Context(), c.DeviceID(), role, in.Password)
	if err != nil {
		fail(c, err, state.Public())
		return
	}
	c.Success(state.Public())
}

func (s *SessionController) Logout(c *ctx.Context) {
	state, err := s.sessions.Logout(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(state.Public())
}

// SwitchChannel flips the login surface. It is ignored while signed in.
func (s *SessionController) SwitchChannel(c *ctx.Context) {
	state, err := s.sessions.SwitchChannel(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(state.Public())
}

// Reset restores the seeded profiles of the device.
func (s *SessionController) Reset(c *ctx.Context) {
	state, err := s.sessions.Reset(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(state.Public())
}

// UpdateProfile saves the profile of the signed-in role. The body shape
// follows the role.
func (s *SessionController) UpdateProfile(c *ctx.Context) {
	state, ok := signedIn(c, s.sessions)
	if !ok {
		return
	}

	var err error
	switch state.Role {
	case models.RoleImporter:
		var p models.ImporterProfile
		if !c.BindJSON(&p) {
			return
		}
		state, err = s.sessions.SaveImporter(c.Context(), c.DeviceID(), p)
	case models.RoleMerchant:
		var p models.MerchantProfile
		if !c.BindJSON(&p) {
			return
		}
		state, err = s.sessions.SaveMerchant(c.Context(), c.DeviceID(), p)
	default:
		var u services.AdminUpdate
		if !c.BindJSON(&u) {
			return
		}
		state, err = s.sessions.SaveAdmin(c.Context(), c.DeviceID(), u)
	}

	if err != nil {
		fail(c, err, state.Public())
		return
	}
	c.Success(state.Public())
}
