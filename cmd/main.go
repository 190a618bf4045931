package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/aranyat/reviews-api/internal/router"
	"github.com/aranyat/reviews-api/pkg/ai"
	"github.com/aranyat/reviews-api/pkg/config"
	"github.com/aranyat/reviews-api/pkg/global"
	"github.com/aranyat/reviews-api/pkg/logger"
	"github.com/aranyat/reviews-api/pkg/mongo"
	"github.com/aranyat/reviews-api/pkg/redis"
	"github.com/aranyat/reviews-api/pkg/reviews"
	"github.com/aranyat/reviews-api/pkg/shopify"
)

const serviceName = "reviews-api"

func main() {
	envErr := godotenv.Load()

	logger.Init(serviceName, global.GetEnvOrDefault("ENV", "development"))
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Fatal().Err(envErr).Msg("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	gateway := shopify.NewClient(&cfg.Shopify)
	opts := []reviews.Option{}
	var cleanups []func(context.Context)

	if cfg.Reviews.WriteMode == config.WriteModeLock {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis is required for the lock write mode")
		}
		cleanups = append(cleanups, func(context.Context) { redisClient.Close() })
		opts = append(opts, reviews.WithLocker(redis.NewLocker(redisClient, cfg.Reviews.LockTTL)))
	}

	if cfg.Mongo.URI != "" {
		mongoClient, err := mongo.Connect(&cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		cleanups = append(cleanups, func(ctx context.Context) { _ = mongoClient.Disconnect(ctx) })

		db := mongoClient.Database(cfg.Mongo.Database)
		ctx, cancel := global.GetDefaultTimer()
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure indexes")
		}
		cancel()

		var classifier mongo.SentimentClassifier
		if aiClient := ai.NewClient(&cfg.AI); aiClient != nil {
			classifier = aiClient
		}
		opts = append(opts, reviews.WithArchiver(mongo.NewArchive(db, classifier)))
	}

	if cfg.Reviews.WriteMode == config.WriteModeNone {
		log.Warn().Msg("Write mode is 'none': concurrent submissions for one product can overwrite each other")
	}

	svc := reviews.NewService(gateway, &cfg.Reviews, opts...)
	engine := router.NewEngine(cfg, router.NewHandler(svc, &cfg.Reviews))

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("shop", gateway.BaseURL()).
			Str("write_mode", string(cfg.Reviews.WriteMode)).
			Msg("Reviews API running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	archived := make(chan struct{})
	go func() {
		svc.Wait()
		close(archived)
	}()
	select {
	case <-archived:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out waiting for archive writes")
	}

	for _, cleanup := range cleanups {
		cleanup(shutdownCtx)
	}
}
