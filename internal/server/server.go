// Package server boots the gateway: it opens the configured backends,
// wires the app and runs the HTTP, gRPC, queue and scheduler loops until
// the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/souqhup/config"
	_ "github.com/shashiranjanraj/souqhup/database/migrations"
	"github.com/shashiranjanraj/souqhup/internal/kernel"
	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/cache"
	"github.com/shashiranjanraj/souqhup/pkg/database"
	"github.com/shashiranjanraj/souqhup/pkg/genai"
	"github.com/shashiranjanraj/souqhup/pkg/grpc"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/mail"
	"github.com/shashiranjanraj/souqhup/pkg/middleware"
	"github.com/shashiranjanraj/souqhup/pkg/migration"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
	"github.com/shashiranjanraj/souqhup/pkg/router"
	"github.com/shashiranjanraj/souqhup/pkg/session"
	"github.com/shashiranjanraj/souqhup/pkg/storage"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 10 * time.Second
	healthCheckKey  = "souqhup:health"
)

// Boot opens every configured backend, migrates the schema and wires the
// app. The returned func releases the backends.
func Boot() (*App, func(), error) {
	if err := config.Load(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		closeAll()
		return nil, nil, err
	}

	if err := database.Connect(); err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = database.Close() })
	if _, err := migration.New(database.DB, io.Discard).Run(); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}

	store, err := cache.Open(config.CacheDriver(), database.DB)
	if err != nil {
		return fail(err)
	}
	if rs, ok := store.(*cache.Redis); ok {
		closers = append(closers, func() { _ = rs.Client().Close() })
	}

	q, err := openQueue(store)
	if err != nil {
		return fail(err)
	}
	q.UseDB(database.DB)

	disks, err := storage.NewManager()
	if err != nil {
		return fail(err)
	}

	app, err := NewApp(Infra{
		DB:            database.DB,
		Store:         store,
		Media:         disks.Default(),
		Queue:         q,
		AI:            genai.FromConfig(),
		Mailer:        mailer(),
		AppKey:        config.AppKey(),
		Flags:         config.FeatureFlags(),
		GenAIWorkers:  config.GenAIWorkers(),
		FeedLatency:   config.FeedLatency(),
		SearchLatency: config.SearchLatency(),
	})
	if err != nil {
		return fail(err)
	}
	closers = append(closers, app.Pool.Shutdown)
	return app, closeAll, nil
}

// openQueue picks the queue driver. The redis driver shares the store's
// client when the store is redis too.
func openQueue(store cache.Store) (*queue.Manager, error) {
	switch config.QueueDriver() {
	case "redis":
		rs, ok := store.(*cache.Redis)
		if !ok {
			var err error
			if rs, err = cache.Connect(); err != nil {
				return nil, fmt.Errorf("queue: %w", err)
			}
		}
		return queue.New(queue.NewRedisDriver(rs.Client()), queue.WithRetry(3, time.Second)), nil
	default:
		return queue.New(queue.NewMemoryDriver(), queue.WithRetry(3, time.Second)), nil
	}
}

// NewKernel builds the HTTP handler of app.
func NewKernel(app *App, signer *auth.Signer, limiter *middleware.Limiter) *kernel.HTTPKernel {
	opts := kernel.Options{
		Signer:  signer,
		Session: session.DefaultOptions(),
		Limiter: limiter,
		Checks: map[string]kernel.Check{
			"store": func(ctx context.Context) error {
				_, _, err := app.Store.Get(ctx, healthCheckKey)
				return err
			},
		},
	}
	if local, ok := app.Media.(*storage.Local); ok {
		opts.StorageRoot = local.Root()
	}
	if app.DB != nil {
		opts.Checks["database"] = func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return kernel.NewHTTPKernel(opts).Routes(app.Routes)
}

// mailer returns the SMTP relay when one is configured.
func mailer() mail.Sender {
	if relay := mail.FromConfig(); relay.Configured() {
		return relay
	}
	logger.Info("mail: no relay configured, beta confirmations are skipped")
	return nil
}

// RouteTable lists the HTTP surface without opening any backend.
func RouteTable() ([]router.Route, error) {
	app, err := NewApp(Infra{
		Store:  cache.NewMemory(),
		Media:  storage.NewLocal(os.TempDir(), ""),
		AppKey: config.AppKey(),
	})
	if err != nil {
		return nil, err
	}
	defer app.Pool.Shutdown()
	return NewKernel(app, auth.DefaultSigner(), nil).Router().Routes(), nil
}

// Start runs the gateway until SIGINT or SIGTERM.
func Start() error {
	app, closeAll, err := Boot()
	if err != nil {
		return err
	}
	defer closeAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewLimiter(config.RateLimit(), time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           NewKernel(app, auth.DefaultSigner(), limiter).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go app.Hub.Run(ctx)
	app.Queue.Start(ctx, queueWorkers)
	app.RefreshGauges()
	app.Scheduler.Start(ctx)

	grpcSrv, err := grpc.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}
	stop()

	logger.Info("server: shutting down")
	grpcSrv.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("http: shutdown", "error", serr)
	}
	grpcSrv.Stop()
	app.Queue.Wait()
	app.Scheduler.Wait()
	return err
}

// Work runs only the queue workers, for a dedicated worker process.
func Work(workers int) error {
	app, closeAll, err := Boot()
	if err != nil {
		return err
	}
	defer closeAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Hub.Run(ctx)
	app.Queue.Start(ctx, workers)
	<-ctx.Done()
	app.Queue.Wait()
	return nil
}
