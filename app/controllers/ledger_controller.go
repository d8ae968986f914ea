package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type LedgerController struct {
	ledger   *services.Ledger
	catalog  *services.Catalog
	sessions *services.SessionService
}

func NewLedgerController(ledger *services.Ledger, catalog *services.Catalog, sessions *services.SessionService) *LedgerController {
	return &LedgerController{ledger: ledger, catalog: catalog, sessions: sessions}
}

type toggleResult struct {
	PostID string `json:"post_id"`
	Set    string `json:"set"`
	Member bool   `json:"member"`
}

func (l *LedgerController) Show(c *ctx.Context) {
	c.Success(l.ledger.Snapshot())
}

// post checks that the signed-in device names a known post.
func (l *LedgerController) post(c *ctx.Context) (string, bool) {
	if _, ok := signedIn(c, l.sessions); !ok {
		return "", false
	}
	p, err := l.catalog.Get(c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return "", false
	}
	return p.ID, true
}

// Like also favorites the post; unliking keeps the favorite.
func (l *LedgerController) Like(c *ctx.Context) {
	id, ok := l.post(c)
	if !ok {
		return
	}
	c.Success(toggleResult{PostID: id, Set: services.SetLiked, Member: l.ledger.ToggleLike(id)})
}

func (l *LedgerController) Favorite(c *ctx.Context) {
	id, ok := l.post(c)
	if !ok {
		return
	}
	c.Success(toggleResult{PostID: id, Set: services.SetFavorited, Member: l.ledger.ToggleFavorite(id)})
}

func (l *LedgerController) Trend(c *ctx.Context) {
	state, ok := signedIn(c, l.sessions)
	if !ok {
		return
	}
	id, ok := l.post(c)
	if !ok {
		return
	}
	trending, err := l.ledger.ToggleTrend(state.Role, id)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(toggleResult{PostID: id, Set: services.SetTrending, Member: trending})
}
