package controllers

import (
	"time"

	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type AutomationController struct {
	automation *services.Automation
	sessions   *services.SessionService
}

func NewAutomationController(automation *services.Automation, sessions *services.SessionService) *AutomationController {
	return &AutomationController{automation: automation, sessions: sessions}
}

func (a *AutomationController) Index(c *ctx.Context) {
	c.Success(a.automation.List())
}

func (a *AutomationController) Update(c *ctx.Context) {
	state, ok := signedIn(c, a.sessions)
	if !ok {
		return
	}
	var in services.AutomationUpdate
	if !c.BindJSON(&in) {
		return
	}
	p, err := a.automation.Update(state.Role, c.Param("id"), in)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(p)
}

func (a *AutomationController) Toggle(c *ctx.Context) {
	state, ok := signedIn(c, a.sessions)
	if !ok {
		return
	}
	p, err := a.automation.Toggle(state.Role, c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(p)
}

// Sync rotates every active profile right away.
func (a *AutomationController) Sync(c *ctx.Context) {
	state, ok := signedIn(c, a.sessions)
	if !ok {
		return
	}
	if _, err := a.automation.Sync(state.Role, time.Now()); err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(a.automation.List())
}
