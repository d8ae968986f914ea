package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type StoreController struct {
	stores   *services.StoreDirectory
	flags    *services.FlagService
	sessions *services.SessionService
}

func NewStoreController(stores *services.StoreDirectory, flags *services.FlagService, sessions *services.SessionService) *StoreController {
	return &StoreController{stores: stores, flags: flags, sessions: sessions}
}

// allowed applies the Souq Store gate of the caller's shell, flag and plan.
func (s *StoreController) allowed(c *ctx.Context) bool {
	state, ok := signedIn(c, s.sessions)
	if !ok {
		return false
	}
	if err := services.Authorize(state, s.flags, models.ServiceSouqStore); err != nil {
		fail(c, err, nil)
		return false
	}
	return true
}

func (s *StoreController) Index(c *ctx.Context) {
	if !s.allowed(c) {
		return
	}
	c.Success(s.stores.List())
}

func (s *StoreController) Show(c *ctx.Context) {
	if !s.allowed(c) {
		return
	}
	store, err := s.stores.Get(c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(store)
}
