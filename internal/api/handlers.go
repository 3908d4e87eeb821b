package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/werkbank/postplan/internal/articles"
	"github.com/werkbank/postplan/internal/logger"
	"github.com/werkbank/postplan/internal/middleware"
	"github.com/werkbank/postplan/internal/scheduler"
	"github.com/werkbank/postplan/internal/store"
)

type Handlers struct {
	service   *scheduler.Service
	articles  *articles.Store
	validator *middleware.Validator
}

func NewHandlers(service *scheduler.Service, articleStore *articles.Store) *Handlers {
	return &Handlers{
		service:   service,
		articles:  articleStore,
		validator: middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ListPosts handles GET /api/v1/posts
func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	posts, err := h.service.List(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(posts),
		"items": posts,
	})
}

// CreatePost handles POST /api/v1/posts
func (h *Handlers) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": h.validator.Fields(err),
		})
	}

	scheduledDate, err := parseDate(req.ScheduledDate)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "scheduled_date must be YYYY-MM-DD or RFC3339",
		})
	}

	post, err := h.service.Create(c.Context(), req.Input, scheduledDate)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *fiber.Ctx) error {
	post, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// GeneratePost handles POST /api/v1/posts/:id/generate
func (h *Handlers) GeneratePost(c *fiber.Ctx) error {
	var req GeneratePostRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
	}
	mode, err := scheduler.ParseMode(req.Mode)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	post, err := h.service.Generate(c.Context(), c.Params("id"), mode)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(post)
}

// Publish handles POST /api/v1/posts/publish: a single id, or mode "auto"
// for every due post
func (h *Handlers) Publish(c *fiber.Ctx) error {
	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": h.validator.Fields(err),
		})
	}

	if req.Mode == "auto" {
		batch, err := h.service.PublishDuePosts(c.Context(), time.Now())
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(batch)
	}

	result, err := h.service.PublishPost(c.Context(), req.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(result)
}

// GetArticle handles GET /api/v1/articles/:slug
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	article, err := h.articles.Read(c.Params("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	if article == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Article not found",
		})
	}
	return c.JSON(article)
}

// UpdateArticle handles PATCH /api/v1/articles/:slug
func (h *Handlers) UpdateArticle(c *fiber.Ctx) error {
	var req UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}

	err := h.articles.UpdateContent(c.Params("slug"), articles.ContentPatch{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "updated",
	})
}

// DeleteArticle handles DELETE /api/v1/articles/:slug
func (h *Handlers) DeleteArticle(c *fiber.Ctx) error {
	if err := h.articles.Delete(c.Params("slug")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// respondError maps domain errors onto HTTP status codes
func (h *Handlers) respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, articles.ErrArticleNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, scheduler.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, scheduler.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, scheduler.ErrMissingGeneratedContent), errors.Is(err, scheduler.ErrEmptyInput):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, scheduler.ErrGenerationFailed):
		status = fiber.StatusBadGateway
	default:
		logger.Get().Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
