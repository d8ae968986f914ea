package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/config"
	"github.com/shashiranjanraj/souqhup/internal/server"
	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/genai"
	"github.com/shashiranjanraj/souqhup/pkg/storage"
)

type cannedAI struct{ text string }

func (a cannedAI) Generate(context.Context, ...genai.Part) (string, error) { return a.text, nil }

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newGateway(t *testing.T) (*server.App, string) {
	t.Helper()
	require.NoError(t, config.Load())

	app, err := server.NewApp(server.Infra{
		Store:        cache.NewMemory(),
		Media:        storage.NewLocal(t.TempDir(), "http://localhost/storage"),
		AI:           cannedAI{text: "Cotton Fabric"},
		AppKey:       "test-key",
		GenAIWorkers: 2,
	})
	require.NoError(t, err)
	t.Cleanup(app.Pool.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go app.Hub.Run(ctx)
	app.Queue.Start(ctx, 1)

	handler := server.NewKernel(app, auth.NewSigner("test-secret", time.Hour), nil).Handler()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return app, srv.URL
}

func newBrowser(t *testing.T, base string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: base,
		client: &http.Client{
			Jar:           jar,
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (b *browser) do(method, path string, body any) (int, envelope) {
	b.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.base+path, reader)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func (b *browser) login(role string) {
	b.t.Helper()
	code, env := b.do(http.MethodPost, "/api/session/login", map[string]string{"role": role})
	require.Equal(b.t, http.StatusOK, code, env.Message)
}

func TestNewDeviceGetsCookieAndDefaultState(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	code, env := b.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, code)

	var state struct {
		LoggedIn bool   `json:"logged_in"`
		Role     string `json:"role"`
		Channel  string `json:"channel"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.False(t, state.LoggedIn)
	assert.Equal(t, "IMPORTER", state.Role)
	assert.NotEmpty(t, b.client.Jar.Cookies(mustURL(t, base)))
}

func TestLoginTwiceConflicts(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	b.login("MERCHANT")
	code, _ := b.do(http.MethodPost, "/api/session/login", map[string]string{"role": "IMPORTER"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestRoleGuards(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	code, _ := b.do(http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	b.login("MERCHANT")
	code, _ = b.do(http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = b.do(http.MethodPut, "/api/flags/hatoo", map[string]bool{"enabled": false})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestTeamManagesFlagsAndTrends(t *testing.T) {
	app, base := newGateway(t)
	b := newBrowser(t, base)

	code, _ := b.do(http.MethodPost, "/api/session/channel", nil)
	require.Equal(t, http.StatusOK, code)
	b.login("TEAM")

	code, env := b.do(http.MethodPut, "/api/flags/market-look", map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.False(t, app.Deps.Flags.IsEnabled(models.ServiceMarketLook))

	code, env = b.do(http.MethodPost, "/api/posts/1/trend", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.True(t, app.Deps.Ledger.IsTrending("1"))

	code, env = b.do(http.MethodPut, "/api/flags/admin-dashboard", map[string]bool{"enabled": false})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "Admin Dashboard")
}

func TestResetNeedsSignIn(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	code, _ := b.do(http.MethodPost, "/api/session/reset", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	b.login("MERCHANT")
	code, env := b.do(http.MethodPost, "/api/session/reset", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"logged_in":false`)
}

func TestSouqStoreDirectory(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	code, _ := b.do(http.MethodGet, "/api/stores", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	b.login("IMPORTER")
	code, env := b.do(http.MethodGet, "/api/stores", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var stores []models.Store
	require.NoError(t, json.Unmarshal(env.Data, &stores))
	assert.Len(t, stores, 4)

	code, env = b.do(http.MethodGet, "/api/stores/m3", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Giza Leather Goods")

	code, _ = b.do(http.MethodGet, "/api/stores/m9", nil)
	assert.Equal(t, http.StatusNotFound, code)

	m := newBrowser(t, base)
	m.login("MERCHANT")
	code, _ = m.do(http.MethodGet, "/api/stores", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStaffRunsAutomation(t *testing.T) {
	_, base := newGateway(t)

	importer := newBrowser(t, base)
	importer.login("IMPORTER")
	code, _ := importer.do(http.MethodGet, "/api/automation", nil)
	assert.Equal(t, http.StatusForbidden, code)

	b := newBrowser(t, base)
	code, _ = b.do(http.MethodPost, "/api/session/channel", nil)
	require.Equal(t, http.StatusOK, code)
	b.login("TEAM")

	code, env := b.do(http.MethodGet, "/api/automation", nil)
	require.Equal(t, http.StatusOK, code)
	var profiles []models.AutomationProfile
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	require.Len(t, profiles, 6)

	code, _ = b.do(http.MethodPut, "/api/automation/1", map[string]any{"interval": 7})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = b.do(http.MethodPut, "/api/automation/42", map[string]any{"interval": 10})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = b.do(http.MethodPut, "/api/automation/1", map[string]any{"interval": 10, "strategy": "CHRONOLOGICAL"})
	require.Equal(t, http.StatusOK, code, env.Message)
	var p models.AutomationProfile
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 10, p.Interval)
	assert.Equal(t, models.StrategyChronological, p.Strategy)

	code, env = b.do(http.MethodPost, "/api/automation/3/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.True(t, p.Active)

	code, env = b.do(http.MethodPost, "/api/automation/sync", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	assert.Equal(t, []string{"2"}, profiles[0].Display)
	assert.False(t, profiles[0].LastRun.IsZero())
}

func TestNotificationSettingsPerDevice(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	code, _ := b.do(http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	b.login("IMPORTER")
	code, env := b.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	var settings models.NotificationSettings
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, models.DefaultNotificationSettings(), settings)

	code, env = b.do(http.MethodPost, "/api/notifications/price_drops/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.True(t, settings.PriceDrops)

	code, _ = b.do(http.MethodPost, "/api/notifications/fax_alerts/toggle", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	other := newBrowser(t, base)
	other.login("MERCHANT")
	code, env = other.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.False(t, settings.PriceDrops)
}

func TestMerchantPublishShowsInChannel(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)
	b.login("MERCHANT")

	code, env := b.do(http.MethodPost, "/api/posts", map[string]string{
		"title": "Linen Rolls",
		"type":  "Image",
		"price": "EGP 90",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var post struct {
		ID    string `json:"id"`
		Date  string `json:"date"`
		Ref   string `json:"ref"`
		Views int    `json:"views"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "Just Now", post.Date)
	assert.True(t, strings.HasPrefix(post.Ref, "#NEW-"))
	assert.Zero(t, post.Views)

	code, env = b.do(http.MethodGet, "/api/feeds/merchant-channel", nil)
	require.Equal(t, http.StatusOK, code)
	var feed []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.NotEmpty(t, feed)
	assert.Equal(t, post.ID, feed[0].ID)
}

func TestLikeAlsoFavorites(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)
	b.login("IMPORTER")

	code, _ := b.do(http.MethodPost, "/api/posts/1/like", nil)
	require.Equal(t, http.StatusOK, code)

	code, env := b.do(http.MethodGet, "/api/ledger", nil)
	require.Equal(t, http.StatusOK, code)
	var ledger struct {
		Liked     []string `json:"liked"`
		Favorited []string `json:"favorited"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.Equal(t, []string{"1"}, ledger.Liked)
	assert.Equal(t, []string{"1"}, ledger.Favorited)

	code, _ = b.do(http.MethodPost, "/api/posts/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVisualSearch(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)
	b.login("IMPORTER")

	code, env := b.do(http.MethodPost, "/api/hatoo/search", map[string]any{
		"images": []map[string]string{{"mime_type": "image/png", "data": "aGVsbG8="}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var result struct {
		Category string `json:"category"`
		Matches  []any  `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "Cotton Fabric", result.Category)
	assert.Len(t, result.Matches, 6)
}

func TestGraphQLFlags(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)

	req, err := http.NewRequest(http.MethodPost, base+"/graphql", strings.NewReader(`{"query":"{ flags { slug enabled } }"}`))
	require.NoError(t, err)
	resp, err := b.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Data struct {
			Flags []struct {
				Slug    string `json:"slug"`
				Enabled bool   `json:"enabled"`
			} `json:"flags"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Data.Flags)
}

func TestOperationalEndpoints(t *testing.T) {
	_, base := newGateway(t)

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "souqhup_http_requests_total")
}

func TestRouteTableListsAPI(t *testing.T) {
	routes, err := server.RouteTable()
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, r := range routes {
		paths[r.Method+" "+r.Path] = true
	}
	assert.True(t, paths["POST /api/session/login"])
	assert.True(t, paths["GET /api/feeds/{service}/stream"])
	assert.True(t, paths["GET /ws"])
	assert.True(t, paths["PUT /api/automation/{id}"])
	assert.True(t, paths["GET /api/stores/{id}"])
	assert.True(t, paths["POST /api/notifications/{key}/toggle"])
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFeedStreamSendsLoadingThenFeed(t *testing.T) {
	_, base := newGateway(t)
	b := newBrowser(t, base)
	b.login("IMPORTER")

	resp, err := b.client.Get(base + "/api/feeds/market-vid/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	loading := strings.Index(text, "event: loading")
	feed := strings.Index(text, "event: feed")
	require.GreaterOrEqual(t, loading, 0)
	require.Greater(t, feed, loading)
	assert.Contains(t, text, "Egyptian Cotton Premium")
}
