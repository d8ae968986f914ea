package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/collection"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

const defaultPostDescription = "Premium wholesale stock direct from our Egyptian facility."

// MediaStore is the part of a storage disk the catalog writes uploads to.
type MediaStore interface {
	Put(path string, content []byte) error
	GetStream(path string) (io.ReadCloser, error)
	URL(path string) string
}

// PostDraft is what a merchant submits to publish a post. Media, when
// present, is the base64 payload of the uploaded asset.
type PostDraft struct {
	Title         string `json:"title"          validate:"required,max=160"`
	Type          string `json:"type"           validate:"nullable,in=Video,Image,video,image"`
	Price         string `json:"price"          validate:"max=60"`
	Capacity      string `json:"capacity"       validate:"max=60"`
	Description   string `json:"description"    validate:"max=1000"`
	Thumbnail     string `json:"thumbnail"      validate:"nullable,url"`
	MediaMimeType string `json:"media_mime_type" validate:"nullable,media"`
	MediaData     string `json:"media_data"     validate:"nullable,base64"`
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers        int `json:"total_users"`
	FreeUsers         int `json:"free_users"`
	ProUsers          int `json:"pro_users"`
	TotalPosts        int `json:"total_posts"`
	TotalViews        int `json:"total_views"`
	TotalInteractions int `json:"total_interactions"`
}

// Catalog is the process-wide post list, newest first.
type Catalog struct {
	mu     sync.RWMutex
	posts  []models.Post
	ledger *Ledger
	media  MediaStore
	bus    *event.Bus
	now    func() time.Time
}

func NewCatalog(seed []models.Post, ledger *Ledger, media MediaStore, bus *event.Bus) *Catalog {
	posts := make([]models.Post, len(seed))
	copy(posts, seed)
	return &Catalog{posts: posts, ledger: ledger, media: media, bus: bus, now: time.Now}
}

// All returns a copy of every post.
func (c *Catalog) All() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

func (c *Catalog) Get(id string) (models.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := collection.First(c.posts, func(p models.Post) bool { return p.ID == id }); ok {
		return p, nil
	}
	return models.Post{}, ErrUnknownPost
}

// Feed lists the posts a page shows for the given state. Favorites and
// Trends read the ledger at call time. mediaFilter narrows the merchant
// channel to one media type; empty means all.
func (c *Catalog) Feed(svc models.Service, state models.SessionState, mediaFilter models.MediaType) ([]models.Post, error) {
	posts := c.All()

	switch svc {
	case models.ServiceMarketLook, models.ServiceMarketHup:
		return collection.Filter(posts, func(p models.Post) bool { return p.Type == models.MediaImage }), nil
	case models.ServiceMarketVID:
		return collection.Filter(posts, func(p models.Post) bool { return p.Type == models.MediaVideo }), nil
	case models.ServiceFavorites:
		return collection.Filter(posts, func(p models.Post) bool { return c.ledger.IsFavorited(p.ID) }), nil
	case models.ServiceTrends:
		return collection.Filter(posts, func(p models.Post) bool { return c.ledger.IsTrending(p.ID) }), nil
	case models.ServiceMerchantChannel:
		return collection.Filter(posts, func(p models.Post) bool {
			return p.MerchantName == state.Merchant.Name && (mediaFilter == "" || p.Type == mediaFilter)
		}), nil
	}
	return nil, ErrNoFeed
}

// LoadFeed waits the simulated loading delay, then reads the feed. If ctx
// ends first the result is dropped and ctx.Err() returned.
func (c *Catalog) LoadFeed(ctx context.Context, svc models.Service, state models.SessionState, mediaFilter models.MediaType, latency time.Duration) ([]models.Post, error) {
	if _, err := c.Feed(svc, state, mediaFilter); err != nil {
		return nil, err
	}
	if err := sleep(ctx, latency); err != nil {
		return nil, err
	}
	return c.Feed(svc, state, mediaFilter)
}

// Publish adds a post by the signed-in merchant to the top of the catalog.
func (c *Catalog) Publish(ctx context.Context, state models.SessionState, d PostDraft) (models.Post, error) {
	if !state.LoggedIn || state.Role != models.RoleMerchant {
		return models.Post{}, ErrForbidden
	}

	kind, err := models.ParseMediaType(d.Type)
	if err != nil {
		return models.Post{}, err
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		description = defaultPostDescription
	}

	post := models.Post{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(d.Title),
		Type:           kind,
		Date:           "Just Now",
		Thumbnail:      d.Thumbnail,
		Ref:            fmt.Sprintf("#NEW-%d", 1000+rand.IntN(9000)),
		Capacity:       d.Capacity,
		Price:          d.Price,
		Description:    description,
		MerchantName:   state.Merchant.Name,
		MerchantAvatar: state.Merchant.Avatar,
		CreatedAt:      c.now(),
	}

	if d.MediaData != "" {
		raw, err := base64.StdEncoding.DecodeString(d.MediaData)
		if err != nil {
			return models.Post{}, fmt.Errorf("catalog: decode media: %w", err)
		}
		path := "posts/" + post.ID + kind.Extension()
		if err := c.media.Put(path, raw); err != nil {
			return models.Post{}, fmt.Errorf("catalog: store media: %w", err)
		}
		post.MediaPath = path
		post.Thumbnail = c.media.URL(path)
	}
	if post.Thumbnail == "" {
		post.Thumbnail = "https://picsum.photos/seed/" + post.ID + "/600/600"
	}

	c.mu.Lock()
	c.posts = append([]models.Post{post}, c.posts...)
	c.mu.Unlock()

	logger.WithCtx(ctx).Info("catalog: post published", "post_id", post.ID, "merchant", post.MerchantName)
	c.bus.Fire(event.PostPublished, PostEvent{Post: post})
	return post, nil
}

// Stats sums the engagement counters of the catalog.
func (c *Catalog) Stats() PlatformStats {
	posts := c.All()
	return PlatformStats{
		TotalUsers:        1542,
		FreeUsers:         1120,
		ProUsers:          422,
		TotalPosts:        len(posts),
		TotalViews:        int(collection.Sum(posts, func(p models.Post) float64 { return float64(p.Views) })),
		TotalInteractions: int(collection.Sum(posts, func(p models.Post) float64 { return float64(p.Interactions) })),
	}
}
