package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/werkbank/postplan/internal/articles"
	"github.com/werkbank/postplan/internal/config"
	"github.com/werkbank/postplan/internal/middleware"
	"github.com/werkbank/postplan/internal/scheduler"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, service *scheduler.Service, articleStore *articles.Store, cfg *config.Config) {
	handlers := NewHandlers(service, articleStore)

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Everything below is operator-only
	admin := api.Group("", middleware.AdminOnly(cfg.AdminAPIKey))

	posts := admin.Group("/posts")
	{
		posts.Get("", handlers.ListPosts)
		posts.Post("", handlers.CreatePost)
		posts.Post("/publish", handlers.Publish)
		posts.Get("/:id", handlers.GetPost)
		posts.Delete("/:id", handlers.DeletePost)
		posts.Post("/:id/generate", handlers.GeneratePost)
	}

	arts := admin.Group("/articles")
	{
		arts.Get("/:slug", handlers.GetArticle)
		arts.Patch("/:slug", handlers.UpdateArticle)
		arts.Delete("/:slug", handlers.DeleteArticle)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
