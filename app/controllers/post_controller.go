package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/resources"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/resource"
)

type PostController struct {
	catalog  *services.Catalog
	assets   *services.Assets
	ledger   *services.Ledger
	sessions *services.SessionService
}

func NewPostController(catalog *services.Catalog, assets *services.Assets, ledger *services.Ledger, sessions *services.SessionService) *PostController {
	return &PostController{catalog: catalog, assets: assets, ledger: ledger, sessions: sessions}
}

func (p *PostController) Show(c *ctx.Context) {
	post, err := p.catalog.Get(c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return
	}
	resource.New[models.Post](resources.PostResource{Ledger: p.ledger}, post).Respond(c.W)
}

// Publish adds a post by the signed-in merchant.
func (p *PostController) Publish(c *ctx.Context) {
	state, ok := signedIn(c, p.sessions)
	if !ok {
		return
	}
	var draft services.PostDraft
	if !c.BindJSON(&draft) {
		return
	}

	post, err := p.catalog.Publish(c.Context(), state, draft)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Created(resources.PostResource{Ledger: p.ledger}.ToMap(post))
}

// Asset downloads the medium of a post as an attachment. When the medium
// cannot be fetched the client is sent to it directly.
func (p *PostController) Asset(c *ctx.Context) {
	post, err := p.catalog.Get(c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return
	}

	asset, err := p.assets.Fetch(c.Context(), post)
	if err != nil {
		c.Log().Warn("posts: asset fetch failed, redirecting", "post_id", post.ID, "error", err)
		c.Redirect(http.StatusFound, post.Thumbnail)
		return
	}

	c.Attachment(asset.Name, asset.ContentType, asset.Body)
}

// Stats returns the platform summary of the admin dashboard.
func (p *PostController) Stats(c *ctx.Context) {
	c.Success(p.catalog.Stats())
}
