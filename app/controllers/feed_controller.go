package controllers

import (
	"time"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/resources"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/resource"
	"github.com/shashiranjanraj/souqhup/pkg/sse"
)

type FeedController struct {
	catalog  *services.Catalog
	ledger   *services.Ledger
	flags    *services.FlagService
	sessions *services.SessionService
	latency  time.Duration
}

func NewFeedController(catalog *services.Catalog, ledger *services.Ledger, flags *services.FlagService, sessions *services.SessionService, latency time.Duration) *FeedController {
	return &FeedController{catalog: catalog, ledger: ledger, flags: flags, sessions: sessions, latency: latency}
}

// request resolves the service, the session and the media filter, and
// checks that the device may open the page.
func (f *FeedController) request(c *ctx.Context) (models.Service, models.SessionState, models.MediaType, bool) {
	state, ok := signedIn(c, f.sessions)
	if !ok {
		return "", state, "", false
	}
	svc, ok := serviceParam(c)
	if !ok {
		return "", state, "", false
	}
	if err := services.Authorize(state, f.flags, svc); err != nil {
		fail(c, err, nil)
		return "", state, "", false
	}

	var filter models.MediaType
	if raw := c.Query("type"); raw != "" {
		t, err := models.ParseMediaType(raw)
		if err != nil {
			c.ValidationError(map[string]string{"type": "The selected type is invalid."})
			return "", state, "", false
		}
		filter = t
	}
	return svc, state, filter, true
}

// Index lists the posts of a page.
func (f *FeedController) Index(c *ctx.Context) {
	svc, state, filter, ok := f.request(c)
	if !ok {
		return
	}
	posts, err := f.catalog.Feed(svc, state, filter)
	if err != nil {
		fail(c, err, nil)
		return
	}

	page, perPage := c.Page()
	resource.CollectionOf[models.Post](resources.PostResource{Ledger: f.ledger}, posts).
		Paginate(page, perPage).
		WithMeta(resource.Map{"service": svc}).
		Respond(c.W)
}

// Stream sends loading, then the feed once the simulated latency passed.
// Nothing is sent if the client leaves first.
func (f *FeedController) Stream(c *ctx.Context) {
	svc, state, filter, ok := f.request(c)
	if !ok {
		return
	}
	stream := sse.New(c.W, c.R)
	if stream == nil {
		return
	}
	_ = stream.Send("loading", map[string]any{"service": svc, "loading": true})

	posts, err := f.catalog.LoadFeed(c.Context(), svc, state, filter, f.latency)
	if err != nil {
		if stream.IsClosed() {
			c.Log().Debug("feed: client left before load finished", "service", svc)
			return
		}
		_, msg := statusOf(err)
		_ = stream.Send("error", map[string]string{"message": msg})
		return
	}
	_ = stream.Send("feed", resource.CollectionOf[models.Post](resources.PostResource{Ledger: f.ledger}, posts))
}
