package services_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

type memDisk struct{ files map[string][]byte }

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(path string, content []byte) error {
	d.files[path] = content
	return nil
}

func (d *memDisk) GetStream(path string) (io.ReadCloser, error) {
	b, ok := d.files[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (d *memDisk) URL(path string) string { return "http://media.test/" + path }

func newCatalog(t *testing.T) (*services.Catalog, *services.Ledger, *memDisk) {
	t.Helper()
	bus := event.NewBus()
	ledger := services.NewLedger(bus)
	disk := newMemDisk()
	return services.NewCatalog(models.SeedPosts(models.DefaultMerchantProfile()), ledger, disk, bus), ledger, disk
}

func merchantState() models.SessionState {
	s := models.DefaultSessionState()
	s.LoggedIn = true
	s.Role = models.RoleMerchant
	return s
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestFeedsByService(t *testing.T) {
	c, ledger, _ := newCatalog(t)
	state := merchantState()

	look, err := c.Feed(models.ServiceMarketLook, state, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(look))

	vid, err := c.Feed(models.ServiceMarketVID, state, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(vid))

	fav, _ := c.Feed(models.ServiceFavorites, state, "")
	assert.Empty(t, fav)
	ledger.ToggleLike("1")
	fav, _ = c.Feed(models.ServiceFavorites, state, "")
	assert.Equal(t, []string{"1"}, ids(fav))

	_, _ = ledger.ToggleTrend(models.RoleAdmin, "2")
	trends, _ := c.Feed(models.ServiceTrends, state, "")
	assert.Equal(t, []string{"2"}, ids(trends))

	mine, _ := c.Feed(models.ServiceMerchantChannel, state, models.MediaVideo)
	assert.Equal(t, []string{"1"}, ids(mine))

	state.Merchant.Name = "Someone Else"
	mine, _ = c.Feed(models.ServiceMerchantChannel, state, "")
	assert.Empty(t, mine)

	_, err = c.Feed(models.ServiceSouqStore, state, "")
	assert.ErrorIs(t, err, services.ErrNoFeed)
}

func TestLoadFeedDiscardedOnCancel(t *testing.T) {
	c, _, _ := newCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts, err := c.LoadFeed(ctx, models.ServiceMarketLook, merchantState(), "", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, posts)
}

func TestLoadFeedReadsLedgerAfterDelay(t *testing.T) {
	c, ledger, _ := newCatalog(t)

	go func() {
		time.Sleep(5 * time.Millisecond)
		ledger.ToggleFavorite("2")
	}()
	posts, err := c.LoadFeed(context.Background(), models.ServiceFavorites, merchantState(), "", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(posts))
}

func TestPublishPrependsPost(t *testing.T) {
	c, _, disk := newCatalog(t)

	post, err := c.Publish(context.Background(), merchantState(), services.PostDraft{
		Title:         "Linen Rolls",
		Type:          "Image",
		Price:         "EGP 90/m",
		MediaMimeType: "image/png",
		MediaData:     base64.StdEncoding.EncodeToString([]byte("png")),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "Just Now", post.Date)
	assert.Zero(t, post.Views)
	assert.Regexp(t, `^#NEW-\d{4}$`, post.Ref)
	assert.Equal(t, "Premium wholesale stock direct from our Egyptian facility.", post.Description)
	assert.Equal(t, "Cairo Textiles Co.", post.MerchantName)
	assert.Equal(t, "http://media.test/posts/"+post.ID+".jpg", post.Thumbnail)
	assert.Equal(t, []byte("png"), disk.files["posts/"+post.ID+".jpg"])

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, post.ID, all[0].ID)
}

func TestPublishIsMerchantOnly(t *testing.T) {
	c, _, _ := newCatalog(t)
	state := merchantState()
	state.Role = models.RoleAdmin

	_, err := c.Publish(context.Background(), state, services.PostDraft{Title: "x"})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestStats(t *testing.T) {
	c, _, _ := newCatalog(t)
	s := c.Stats()
	assert.Equal(t, 1542, s.TotalUsers)
	assert.Equal(t, 1120, s.FreeUsers)
	assert.Equal(t, 422, s.ProUsers)
	assert.Equal(t, 8600, s.TotalViews)
	assert.Equal(t, 1620, s.TotalInteractions)
}

func TestAssetFromRemoteURL(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("pixels"))
	}))
	defer srv.Close()

	post := models.Post{Title: "Industrial  Silk Yarn", Type: models.MediaImage, Thumbnail: srv.URL}
	asset, err := services.NewAssets(newMemDisk()).Fetch(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, "Industrial_Silk_Yarn.jpg", asset.Name)
	assert.Equal(t, "image/webp", asset.ContentType)
	assert.Equal(t, "pixels", string(asset.Body))
}

func TestAssetFromDisk(t *testing.T) {
	disk := newMemDisk()
	disk.files["posts/x.mp4"] = []byte("video")

	post := models.Post{Title: "Cotton Reel", Type: models.MediaVideo, MediaPath: "posts/x.mp4"}
	asset, err := services.NewAssets(disk).Fetch(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, "Cotton_Reel.mp4", asset.Name)
	assert.Equal(t, "video/mp4", asset.ContentType)
}

func TestAssetFetchFailure(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		gohttp.Error(w, "gone", gohttp.StatusNotFound)
	}))
	defer srv.Close()

	_, err := services.NewAssets(newMemDisk()).Fetch(context.Background(), models.Post{Title: "a", Thumbnail: srv.URL})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
}
