// @title        Helpdesk Console Gateway API
// @version      1.0
// @description  Access-control core for the helpdesk administration console.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helpdeskhq/console-gateway/internal/api"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/infrastructure/config"
	mongodb "github.com/helpdeskhq/console-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/helpdeskhq/console-gateway/internal/infrastructure/db/redis"
	"github.com/helpdeskhq/console-gateway/internal/infrastructure/queue"
	"github.com/helpdeskhq/console-gateway/pkg/logger"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := domain.ValidateCapabilityTable(); err != nil {
		log.Fatal().Err(err).Msg("capability table invalid")
	}

	mongoClient, db, err := mongodb.Connect(rootCtx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		PingTimeout: cfg.Mongo.PingTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo init failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(rootCtx); err != nil {
		log.Fatal().Err(err).Msg("mongo index init failed")
	}

	// An unset REDIS_ADDR yields a nil client and in-memory sessions.
	rdb, err := redisdb.Connect(rootCtx, redisdb.Config{
		Addr:        cfg.Redis.Addr,
		DB:          cfg.Redis.DB,
		PingTimeout: cfg.Redis.PingTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn().Msg("no redis address configured, sessions held in process memory")
	}

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewAuditDispatcher(0, auditRepo, log)
	dispatcher.Start(rootCtx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("console gateway listening")

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("console gateway stopped")
}
