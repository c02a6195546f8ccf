// @title           josetsu customer API
// @version         1.0
// @description     Customer-record management for a snow-removal service: list, search, edit, and map customers.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/anybirth-inc/josetsu/docs"
	"github.com/anybirth-inc/josetsu/internal/api"
	"github.com/anybirth-inc/josetsu/internal/infrastructure/config"
	mongodb "github.com/anybirth-inc/josetsu/internal/infrastructure/db/mongo"
	redisdb "github.com/anybirth-inc/josetsu/internal/infrastructure/db/redis"
	"github.com/anybirth-inc/josetsu/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Service: "josetsu",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error closing mongodb connection")
		}
	}()

	if err := mongodb.NewCustomerRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure customer indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis connection")
		}
	}()

	// --- Router and background workers ---
	e, dispatcher := api.NewRouter(db, rdb, cfg, log)
	dispatcher.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel() // stop refresh workers

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}
