// Package main is the entry point for the gameweek planner service: an HTTP
// API that mirrors the public FPL endpoints through a snapshot cache and
// plans a manager's gameweek on top of them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwplanner/internal/cache"
	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/config"
	"gwplanner/internal/database"
	cataloghandlers "gwplanner/internal/modules/catalog/handlers"
	"gwplanner/internal/modules/insights"
	insightshandlers "gwplanner/internal/modules/insights/handlers"
	"gwplanner/internal/modules/planning"
	planninghandlers "gwplanner/internal/modules/planning/handlers"
	"gwplanner/internal/scheduler"
	"gwplanner/internal/server"
	"gwplanner/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)
	log.Info().Str("data_dir", cfg.DataDir).Int("port", cfg.Port).Msg("Starting gwplanner")

	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath(),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	store, err := cache.New(cacheDB, cfg.CacheTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot cache")
	}

	client := fpl.NewClient(cfg.FPLBaseURL, store, log)

	planningService := planning.NewService(client, log)
	insightsService := insights.NewService(client, log)

	srv := server.New(server.Config{
		Log:      log,
		Cfg:      cfg,
		CacheDB:  cacheDB,
		Catalog:  cataloghandlers.NewHandler(client, log),
		Planning: planninghandlers.NewHandler(planningService, log),
		Insights: insightshandlers.NewHandler(insightsService, log),
	})

	sched := scheduler.New(log)
	if cfg.RefreshSpec != "" {
		refresh := scheduler.NewRefreshJob(client, store, log)
		if err := sched.AddJob(cfg.RefreshSpec, refresh); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.RefreshSpec).Msg("Failed to register warm-refresh job")
		}
		go func() {
			if err := sched.RunNow(refresh); err != nil {
				log.Warn().Err(err).Msg("Initial warm refresh failed")
			}
		}()
	}
	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Shutdown complete")
}
