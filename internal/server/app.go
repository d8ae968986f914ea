package server

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/app/listeners"
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/repositories"
	"github.com/shashiranjanraj/souqhup/app/routes"
	"github.com/shashiranjanraj/souqhup/app/schema"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/crypt"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/graphql"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/mail"
	"github.com/shashiranjanraj/souqhup/pkg/metrics"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
	"github.com/shashiranjanraj/souqhup/pkg/router"
	"github.com/shashiranjanraj/souqhup/pkg/schedule"
	"github.com/shashiranjanraj/souqhup/pkg/storage"
	"github.com/shashiranjanraj/souqhup/pkg/workerpool"
	"github.com/shashiranjanraj/souqhup/pkg/ws"
)

// Infra is what the gateway runs on. DB may be nil when neither the
// store nor the beta queue needs it.
type Infra struct {
	DB    *gorm.DB
	Store cache.Store
	Media storage.Disk
	Queue *queue.Manager
	AI    services.Generator
	// Mailer confirms beta sign-ups. Nil skips the confirmation.
	Mailer mail.Sender

	AppKey        string
	Flags         map[string]bool
	GenAIWorkers  int
	FeedLatency   time.Duration
	SearchLatency time.Duration
}

// NavIdle is how long the page selection of a quiet device is kept.
const NavIdle = 24 * time.Hour

// App holds the wired services of one gateway process.
type App struct {
	Infra

	Bus       *event.Bus
	Hub       *ws.Hub
	Pool      *workerpool.Pool
	Scheduler *schedule.Scheduler
	Deps      routes.Deps
}

// NewApp wires the services over in. Nothing is started.
func NewApp(in Infra) (*App, error) {
	box, err := crypt.New(in.AppKey)
	if err != nil {
		return nil, fmt.Errorf("server: app key: %w", err)
	}
	if in.GenAIWorkers < 1 {
		in.GenAIWorkers = 1
	}
	if in.Queue == nil {
		in.Queue = queue.New(queue.NewMemoryDriver())
	}

	a := &App{
		Infra:     in,
		Bus:       event.NewBus(),
		Hub:       ws.NewHub(),
		Pool:      workerpool.New(in.GenAIWorkers),
		Scheduler: schedule.New(),
	}

	repo := repositories.NewStateRepository(in.Store, box)
	sessions := services.NewSessionService(repo, a.Bus)
	flags := services.NewFlagService(in.Flags, a.Bus)
	ledger := services.NewLedger(a.Bus)
	catalog := services.NewCatalog(models.SeedPosts(models.DefaultMerchantProfile()), ledger, in.Media, a.Bus)
	stores := services.NewStoreDirectory(models.SeedStores())

	a.Deps = routes.Deps{
		Sessions:      sessions,
		Flags:         flags,
		View:          services.NewViewService(sessions, flags, a.Bus),
		Ledger:        ledger,
		Catalog:       catalog,
		Assets:        services.NewAssets(in.Media),
		Search:        services.NewVisualSearch(in.AI, a.Pool, in.SearchLatency, a.Bus),
		Insights:      services.NewInsights(models.SeedInquiries(), in.AI, a.Pool, a.Bus),
		Chats:         services.NewChatService(a.Bus),
		Beta:          services.NewBetaService(in.Queue),
		Stores:        stores,
		Automation:    services.NewAutomation(models.SeedAutomationProfiles(), catalog, ledger, stores, a.Bus),
		Notifications: services.NewNotificationService(repo, flags),
		Hub:           a.Hub,
		FeedLatency:   in.FeedLatency,
	}

	gqlSchema, err := schema.New(schema.Deps{
		Sessions: sessions,
		Flags:    flags,
		View:     a.Deps.View,
		Catalog:  catalog,
		Ledger:   ledger,
	})
	if err != nil {
		return nil, fmt.Errorf("server: graphql schema: %w", err)
	}
	a.Deps.GraphQL = graphql.Handler(gqlSchema)

	listeners.RegisterJobs(in.Queue, a.Hub, in.DB, in.Mailer)
	listeners.Register(a.Bus, a.Hub, in.Queue)
	a.schedule()
	return a, nil
}

// Routes mounts the API on r.
func (a *App) Routes(r *router.Router) {
	routes.RegisterAPI(r, a.Deps)
}

// schedule registers the periodic housekeeping.
func (a *App) schedule() {
	a.Scheduler.EveryMinute().Name("catalog-gauges").Run(func(context.Context) {
		a.RefreshGauges()
	})

	a.Scheduler.EveryMinute().Name("automation").Run(func(context.Context) {
		a.Deps.Automation.Run(time.Now(), false)
	})

	a.Scheduler.Hourly().Name("nav-prune").Run(func(context.Context) {
		if n := a.Deps.View.Prune(time.Now().Add(-NavIdle)); n > 0 {
			logger.Info("schedule: idle nav state dropped", "devices", n)
		}
	})

	if db, ok := a.Store.(*cache.Database); ok {
		a.Scheduler.Hourly().Name("kv-prune").WithoutOverlapping().Run(func(ctx context.Context) {
			n, err := db.Prune(ctx)
			if err != nil {
				logger.Error("schedule: kv prune failed", "error", err)
				return
			}
			logger.Info("schedule: kv pruned", "rows", n)
		})
	}
}

// RefreshGauges publishes the platform totals.
func (a *App) RefreshGauges() {
	stats := a.Deps.Catalog.Stats()
	metrics.Catalog.WithLabelValues("posts").Set(float64(stats.TotalPosts))
	metrics.Catalog.WithLabelValues("views").Set(float64(stats.TotalViews))
	metrics.Catalog.WithLabelValues("interactions").Set(float64(stats.TotalInteractions))
	metrics.Catalog.WithLabelValues("open_chats").Set(float64(a.Deps.Chats.Count()))
	metrics.Catalog.WithLabelValues("live_clients").Set(float64(a.Hub.ClientCount()))
}
