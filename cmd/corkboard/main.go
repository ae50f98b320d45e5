package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/corkboard/internal/auth"
	"github.com/gosuda/corkboard/internal/config"
	"github.com/gosuda/corkboard/internal/hub"
	"github.com/gosuda/corkboard/internal/server"
	"github.com/gosuda/corkboard/internal/store/postgres"
	redisstore "github.com/gosuda/corkboard/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("CORKBOARD_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("CORKBOARD_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis. The access cache fronts board visibility checks so
	// each hub subscribe avoids a database round trip.
	accessCache, err := redisstore.NewAccessCache(
		ctx,
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		store.Boards(),
		cfg.Redis.AccessTTL,
	)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := accessCache.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing access cache")
		}
	}()

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Create the realtime hub.
	h := hub.New(hub.Config{
		SendBuffer:        cfg.Hub.SendBuffer,
		WriteTimeout:      cfg.Hub.WriteTimeout,
		HeartbeatInterval: cfg.Hub.HeartbeatInterval,
		HeartbeatGrace:    cfg.Hub.HeartbeatGrace,
	}, accessCache)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Heartbeat monitor probes connections and prunes dead ones.
	go hub.NewMonitor(h).Run(ctx)

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, accessCache, authSvc, h)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
