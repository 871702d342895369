package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/canbyr/spottalk/internal/config"
	"github.com/canbyr/spottalk/internal/events"
	"github.com/canbyr/spottalk/internal/spots"
	"github.com/canbyr/spottalk/internal/storage"
	"github.com/canbyr/spottalk/pkg/graceful"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, assuming environment variables are set directly")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading configuration")
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer pool.Close()

	blobs, err := storage.NewBlobStore(storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to blob storage")
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("preparing image bucket")
	}

	var publisher spots.EventPublisher
	if cfg.KafkaBroker != "" {
		kafkaPublisher := events.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info().Str("broker", cfg.KafkaBroker).Str("topic", cfg.KafkaTopic).
			Msg("spot event publishing enabled")
	}

	store := spots.NewStore(pool, blobs, publisher, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("preparing spots table")
	}

	app := Bootstrap(store, logger)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error().Err(err).Msg("shutting down server")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("serving")
	}
}

// Bootstrap assembles the Fiber app with all routes mounted. Kept separate
// from main so tests can exercise the full app.
func Bootstrap(store spots.SpotStore, logger zerolog.Logger) *fiber.App {
	app := fiber.New()

	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	spots.NewHandler(store, logger).Register(app)

	return app
}
