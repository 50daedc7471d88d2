package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/orgball2608/frugal-feed/internal/feed"
	"github.com/orgball2608/frugal-feed/internal/feed/feedimpl"
	"github.com/orgball2608/frugal-feed/internal/feed/scheduler"
	"github.com/orgball2608/frugal-feed/internal/ratelimit"
	repositories "github.com/orgball2608/frugal-feed/internal/repositories/fx"
	"github.com/orgball2608/frugal-feed/internal/server"
	"github.com/orgball2608/frugal-feed/pkg/config"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	repositories.Module,
	fx.Provide(
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Store)),
		),
		newLimiter,
		newServer,
	),
	fx.Invoke(run),
)

func newLimiter(cfg *config.Config) ratelimit.Limiter {
	return ratelimit.NewInMemoryLimiter(cfg.Feed.RefreshPerMin, time.Minute, cfg.Feed.RefreshBurst)
}

func newServer(cfg *config.Config, store feed.Store, limiter ratelimit.Limiter, log logger.Logger) *server.Server {
	return server.New(server.Opts{
		Store:   store,
		Logger:  log,
		Limiter: limiter,
		Friends: cfg.Feed.Friends,
	})
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, store feed.Store, srv *server.Server) {
	ctx, cancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	var sched *scheduler.Scheduler

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, httpServer)

			// First load, like a feed screen appearing.
			go func() {
				if err := store.Refresh(ctx); err != nil {
					log.Error("Initial feed refresh failed", "error", err)
				}
			}()

			if cfg.Feed.RefreshInterval > 0 {
				s, err := scheduler.New(scheduler.Opts{
					Store:    store,
					Logger:   log,
					Interval: cfg.Feed.RefreshInterval,
				})
				if err != nil {
					return err
				}
				if err := s.Start(ctx); err != nil {
					return err
				}
				sched = s
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if sched != nil {
				if err := sched.Stop(); err != nil {
					log.Error("Failed to stop scheduler", "error", err)
				}
			}
			return httpServer.Shutdown(stopCtx)
		},
	})
}

func startHttpServer(log logger.Logger, srv *http.Server) {
	log.Info("Starting server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
	}
}
