package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type ViewController struct {
	view     *services.ViewService
	sessions *services.SessionService
}

func NewViewController(view *services.ViewService, sessions *services.SessionService) *ViewController {
	return &ViewController{view: view, sessions: sessions}
}

// Show returns the screen, shell, page and menu of the device.
func (v *ViewController) Show(c *ctx.Context) {
	view, err := v.view.Resolve(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(view)
}

type navigateInput struct {
	Service string `json:"service" validate:"required"`
	Overlay bool   `json:"overlay"`
}

type navigateResult struct {
	Navigation services.Navigation `json:"navigation"`
	View       services.View       `json:"view"`
}

// Navigate opens a page. A plan-locked page answers upgrade_prompt and
// leaves the current page in place.
func (v *ViewController) Navigate(c *ctx.Context) {
	var in navigateInput
	if !c.BindJSON(&in) {
		return
	}
	svc, err := models.ParseService(in.Service)
	if err != nil {
		c.NotFound(err.Error())
		return
	}

	nav, err := v.view.Navigate(c.Context(), c.DeviceID(), svc, in.Overlay)
	if err != nil {
		fail(c, err, nil)
		return
	}
	v.respond(c, nav)
}

// Home opens the brand target of the shell.
func (v *ViewController) Home(c *ctx.Context) {
	nav, err := v.view.Home(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	v.respond(c, nav)
}

func (v *ViewController) respond(c *ctx.Context, nav services.Navigation) {
	view, err := v.view.Resolve(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(navigateResult{Navigation: nav, View: view})
}

type menuInput struct {
	Open bool `json:"open"`
}

func (v *ViewController) Menu(c *ctx.Context) {
	if _, ok := signedIn(c, v.sessions); !ok {
		return
	}
	var in menuInput
	if !c.BindJSON(&in) {
		return
	}
	v.view.SetMenuOpen(c.DeviceID(), in.Open)
	c.Success(v.view.Nav(c.DeviceID()))
}

func (v *ViewController) Collapse(c *ctx.Context) {
	if _, ok := signedIn(c, v.sessions); !ok {
		return
	}
	v.view.ToggleCollapse(c.DeviceID())
	c.Success(v.view.Nav(c.DeviceID()))
}

func (v *ViewController) DismissUpgrade(c *ctx.Context) {
	if _, ok := signedIn(c, v.sessions); !ok {
		return
	}
	v.view.DismissUpgrade(c.DeviceID())
	c.Success(v.view.Nav(c.DeviceID()))
}

// Upgrade returns the PRO offer for shells that show it.
func (v *ViewController) Upgrade(c *ctx.Context) {
	state, ok := signedIn(c, v.sessions)
	if !ok {
		return
	}
	if !services.ShellFor(state.Role).Upgrades {
		fail(c, services.ErrServiceUnavailable, nil)
		return
	}
	c.Success(services.Offer())
}
