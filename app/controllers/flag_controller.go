package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type FlagController struct {
	flags    *services.FlagService
	sessions *services.SessionService
}

func NewFlagController(flags *services.FlagService, sessions *services.SessionService) *FlagController {
	return &FlagController{flags: flags, sessions: sessions}
}

func (f *FlagController) Index(c *ctx.Context) {
	c.Success(f.flags.List())
}

type flagInput struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// Update switches one service on or off for every shell.
func (f *FlagController) Update(c *ctx.Context) {
	state, ok := signedIn(c, f.sessions)
	if !ok {
		return
	}
	svc, ok := serviceParam(c)
	if !ok {
		return
	}
	var in flagInput
	if !c.BindJSON(&in) {
		return
	}

	if err := f.flags.SetEnabled(state.Role, svc, *in.Enabled); err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(services.Flag{Service: svc, Slug: svc.Slug(), Enabled: f.flags.IsEnabled(svc)})
}
