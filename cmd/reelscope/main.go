package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelscope/reelscope/internal/api"
	"github.com/reelscope/reelscope/internal/catalog"
	"github.com/reelscope/reelscope/internal/catalog/tmdb"
	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/database"
	"github.com/reelscope/reelscope/internal/library"
	"github.com/reelscope/reelscope/internal/logger"
	"github.com/reelscope/reelscope/internal/scheduler"
	"github.com/reelscope/reelscope/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Msg("starting ReelScope")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	provider := tmdb.NewClient(cfg.TMDB, log.Logger)
	if !provider.IsConfigured() {
		log.Warn().Msg("TMDB API key is not configured, catalog queries will fail")
	}

	catalogService := catalog.NewService(provider, log.Logger)
	libraryStore := library.NewStore(db.Conn(), log.Logger)

	hub := websocket.NewHub()
	go hub.Run()

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	err = sched.RegisterTask(scheduler.TaskConfig{
		ID:         "network-refresh",
		Name:       "Network catalog refresh",
		Cron:       "0 4 * * *",
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			return catalogService.RefreshNetworks(ctx)
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register network refresh task")
	}

	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(catalogService, libraryStore, sched, hub, cfg, log.Logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
		log.Info().Msg("HTTP server stopped")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	log.Info().Msg("server stopped")
}
