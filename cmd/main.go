package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/werkbank/postplan/internal/ai"
	"github.com/werkbank/postplan/internal/api"
	"github.com/werkbank/postplan/internal/articles"
	"github.com/werkbank/postplan/internal/cache"
	"github.com/werkbank/postplan/internal/config"
	"github.com/werkbank/postplan/internal/logger"
	"github.com/werkbank/postplan/internal/middleware"
	"github.com/werkbank/postplan/internal/mirror"
	"github.com/werkbank/postplan/internal/scheduler"
	"github.com/werkbank/postplan/internal/store"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	// Open the scheduled-post database
	posts, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := posts.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Published-input guard: Redis when configured, in-memory otherwise
	var guard cache.Guard
	if cfg.RedisURL != "" {
		guard, err = cache.NewRedisGuard(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis guard")
		}
	} else {
		log.Warn().Msg("No REDIS_URL configured, using in-memory published-input guard")
		guard = cache.NewMockGuard()
	}
	defer func() {
		if err := guard.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing guard")
		}
	}()

	// Generation collaborators (optional for basic functionality)
	var content ai.ContentGenerator
	var image ai.ImageGenerator
	if cfg.AIApiKey != "" {
		content = ai.NewGeminiClient(cfg.AIApiKey, cfg.AIModel, cfg.AITimeout)
		image = ai.NewImagenClient(cfg.AIApiKey, cfg.AIImageModel, cfg.AITimeout)
	} else {
		log.Warn().Msg("No AI_API_KEY configured, generation endpoints will fail")
	}

	// Optional R2 mirror for published articles
	var articleMirror scheduler.Mirror
	if cfg.MirrorEnabled() {
		articleMirror, err = mirror.NewR2Mirror(context.Background(), cfg.StoragePath, mirror.Settings{
			Endpoint:  cfg.R2Endpoint,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 mirror")
		}
	}

	service := scheduler.NewService(posts, articles.NewWriter(cfg.StoragePath), scheduler.Options{
		Content:  content,
		Image:    image,
		Guard:    guard,
		GuardTTL: cfg.GuardTTL,
		Mirror:   articleMirror,
	})
	articleStore := articles.NewStore(cfg.StoragePath)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Setup API routes
	api.SetupRoutes(app, service, articleStore, cfg)

	// Background loop publishing due posts on an interval
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go publishLoop(loopCtx, service, cfg.PublishInterval)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopLoop()

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// publishLoop runs the due-publish batch on a ticker until the context is
// cancelled
func publishLoop(ctx context.Context, service *scheduler.Service, interval time.Duration) {
	log := logger.Get()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Publish loop stopped")
			return
		case <-ticker.C:
			if _, err := service.PublishDuePosts(ctx, time.Now()); err != nil {
				log.Error().Err(err).Msg("Due-publish run failed")
			}
		}
	}
}
