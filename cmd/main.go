package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aelshh/Excalidraw-clone/internal/app/registry"
	"github.com/aelshh/Excalidraw-clone/internal/app/server"
	"github.com/aelshh/Excalidraw-clone/internal/config"
	"github.com/aelshh/Excalidraw-clone/internal/core/services"
	"github.com/aelshh/Excalidraw-clone/internal/platform/logger"
	"github.com/aelshh/Excalidraw-clone/internal/platform/telemetry"
	"github.com/aelshh/Excalidraw-clone/internal/plugins/postgres"
	redisPlugin "github.com/aelshh/Excalidraw-clone/internal/plugins/redis"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	// Missing signing secret is a startup failure, never a per-request one.
	if cfg.SecretToken == "" {
		log.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
		os.Exit(1)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "DSN", cfg.Postgres.DSN, "err", err)
		return
	}
	defer pdb.Close()
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL, "err", err)
		return
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	roomRepo := postgres.NewRoomRepository(pdb)
	roomCache := redisPlugin.NewRedisRoomCache(rdb)
	txManager := postgres.NewTxManager(pdb)

	// Core services
	hub := registry.NewRegistry(log)
	tokenSvc := services.NewTokenService(cfg.SecretToken)
	userSvc := services.NewUserService(log, userRepo, txManager)
	roomSvc := services.NewRoomService(log, roomRepo, roomCache, txManager, cfg.Redis.RoomCacheTTL)
	relaySvc := services.NewRelayService(log, hub)

	// Server
	srv := server.NewServer(log, cfg, userSvc, roomSvc, relaySvc, tokenSvc, hub)
	if err := srv.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}
}
