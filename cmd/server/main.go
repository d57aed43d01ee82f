package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/costasur/portal-clientes/internal/api"
	"github.com/costasur/portal-clientes/internal/core/service"
	mongodb "github.com/costasur/portal-clientes/internal/infrastructure/db/mongo"
	redisdb "github.com/costasur/portal-clientes/internal/infrastructure/db/redis"
	"github.com/costasur/portal-clientes/internal/infrastructure/queue"
	"github.com/costasur/portal-clientes/internal/infrastructure/strapi"
	"github.com/costasur/portal-clientes/internal/pkg/config"
	"github.com/costasur/portal-clientes/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	gateway := strapi.NewClient(cfg.Strapi.BaseURL, cfg.Strapi.Timeout, log)
	sessionStore := redisdb.NewSessionStore(rdb, "")

	activityRepo := mongodb.NewActivityRepository(db)
	dispatcher := queue.NewDispatcher(0, activityRepo, log)
	dispatcher.Start(ctx)

	// --- Services ---
	sessions := service.NewSessionService(gateway, sessionStore, dispatcher, cfg.SessionSecret, cfg.SessionTTL, log)
	obras := service.NewObraService(gateway, cfg.Strapi.AssetBaseURL, log)
	consultas := service.NewConsultaService(gateway, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		Sessions:  sessions,
		Resolver:  sessions,
		Obras:     obras,
		Consultas: consultas,
		Mongo:     db,
		Redis:     rdb,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Strapi.BaseURL).Msg("portal started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("portal stopped")
}
