// Package app wires the enforcement core into a runnable HTTP application:
// configuration, logging, cache facade, enforcement service, middleware
// chain, and routes. cmd/gated is a thin shell around this package.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brandgate/internal/cache"
	"brandgate/internal/clock"
	"brandgate/internal/config"
	"brandgate/internal/infrastructure"
	"brandgate/internal/license"
	"brandgate/internal/middleware"
	"brandgate/internal/services"
	"brandgate/internal/store"
	handlers "brandgate/internal/transport/http"
)

// Application is the dependency container for the enforcement API.
type Application struct {
	Config      *config.Config
	Logger      *slog.Logger
	Router      *chi.Mux
	Server      *http.Server
	Store       store.Store
	Facade      *cache.Facade
	Enforcement *services.EnforcementService
	Gate        *middleware.LicenseGate

	remote      *cache.RedisStore
	closeLogger func() error
}

// New assembles the application around the given data store.
func New(cfg *config.Config, st store.Store) (*Application, error) {
	logger, closeLogger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Bool("remote_cache", cfg.RemoteCacheConfigured()))

	clk := clock.System{}

	var remote cache.Store
	var redisStore *cache.RedisStore
	if cfg.RemoteCacheConfigured() {
		redisStore = cache.NewRedisStore(cfg.Cache)
		remote = redisStore
	}
	facade := cache.New(remote, clk, logger)

	enforcement := services.NewEnforcementService(st, facade, clk, logger, cfg.Enforcement)

	gate := middleware.NewLicenseGate(enforcement, clk, logger)
	gate.AddExcludePrefix("/api/license/")

	a := &Application{
		Config:      cfg,
		Logger:      logger,
		Store:       st,
		Facade:      facade,
		Enforcement: enforcement,
		Gate:        gate,
		remote:      redisStore,
		closeLogger: closeLogger,
	}
	a.Router = a.buildRouter()
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return a, nil
}

// buildRouter assembles the middleware chain and routes. The license gate
// guards the whole /api subtree except the license endpoints themselves,
// which carry the key in the request instead.
func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.SecurityHeaders)

	health := handlers.NewHealthHandler(config.AppVersion)
	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.Handler())

	licenseHandler := handlers.NewLicenseHandler(a.Enforcement, a.Logger)
	rl := middleware.NewRateLimiter(config.ValidationRateLimit, config.ValidationRateBurst, a.Logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(a.Gate.Handler)

		api.Group(func(lic chi.Router) {
			lic.Use(rl.Handler)
			lic.Mount("/license", licenseHandler.Routes())
		})
	})

	return r
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.Logger.Info("server stopped")
	return a.Close()
}

// Close releases the remote cache connection and the log file, if any.
func (a *Application) Close() error {
	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			a.Logger.Warn("failed to close remote cache", slog.String("error", err.Error()))
		}
	}
	if a.closeLogger != nil {
		return a.closeLogger()
	}
	return nil
}

// SeedDemoData loads a small fixture set into a memory store so the harness
// answers real requests out of the box.
func SeedDemoData(st *store.MemoryStore, clk clock.Clock) {
	now := clk.Now()

	active := demoSubscription("tenant-coffee", "BG-DEMO-AAAA-BBBB-CCCC",
		now.Add(-30*24*time.Hour), now.Add(335*24*time.Hour))
	st.PutSubscription(active)
	st.PutPlanFeatures(active.ID, demoFeatures(5))
	st.SetBranchCount("tenant-coffee", 3)

	grace := demoSubscription("tenant-bakery", "BG-DEMO-DDDD-EEEE-FFFF",
		now.Add(-367*24*time.Hour), now.Add(-2*24*time.Hour))
	st.PutSubscription(grace)
	st.PutPlanFeatures(grace.ID, demoFeatures(0))
	st.SetBranchCount("tenant-bakery", 12)

	lapsed := demoSubscription("tenant-retail", "BG-DEMO-GGGG-HHHH-IIII",
		now.Add(-380*24*time.Hour), now.Add(-15*24*time.Hour))
	st.PutSubscription(lapsed)
	st.PutPlanFeatures(lapsed.ID, demoFeatures(2))
	st.SetBranchCount("tenant-retail", 2)
}

func demoSubscription(tenantID, key string, start, end time.Time) *license.Subscription {
	return &license.Subscription{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LicenseKey: key,
		Status:     license.StatusActive,
		StartDate:  start,
		EndDate:    end,
		PlanID:     "plan-standard",
	}
}

func demoFeatures(maxBranches int) *license.PlanFeatures {
	return &license.PlanFeatures{
		MaxBranches: maxBranches,
		Flags: map[string]bool{
			"analytics":   true,
			"white_label": maxBranches == 0,
		},
	}
}
