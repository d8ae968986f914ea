package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type BetaController struct {
	beta *services.BetaService
}

func NewBetaController(beta *services.BetaService) *BetaController {
	return &BetaController{beta: beta}
}

// Request queues a beta invite and answers before it is processed.
func (b *BetaController) Request(c *ctx.Context) {
	var req services.BetaRequest
	if !c.BindJSON(&req) {
		return
	}
	id, err := b.beta.Request(c.Context(), req)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Accepted("Beta request received", map[string]string{"id": id})
}
