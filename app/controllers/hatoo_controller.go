package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type HatooController struct {
	search   *services.VisualSearch
	flags    *services.FlagService
	sessions *services.SessionService
}

func NewHatooController(search *services.VisualSearch, flags *services.FlagService, sessions *services.SessionService) *HatooController {
	return &HatooController{search: search, flags: flags, sessions: sessions}
}

type searchRequest struct {
	Images []services.SearchImage `json:"images" validate:"required,maxitems=16"`
}

// Search identifies the products in the uploaded photos.
func (h *HatooController) Search(c *ctx.Context) {
	state, ok := signedIn(c, h.sessions)
	if !ok {
		return
	}
	if err := services.Authorize(state, h.flags, models.ServiceHATOo); err != nil {
		fail(c, err, nil)
		return
	}

	var req searchRequest
	if !c.BindJSON(&req) {
		return
	}
	for _, img := range req.Images {
		if errs := c.Validate(img); len(errs) > 0 {
			c.ValidationError(errs)
			return
		}
	}

	result, err := h.search.Search(c.Context(), c.DeviceID(), req.Images)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(result)
}
