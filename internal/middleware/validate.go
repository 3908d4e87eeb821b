package middleware

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/werkbank/postplan/internal/logger"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	return &Validator{validate: v}
}

// Validate validates the request body against the provided struct
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// Fields flattens validation errors into a field -> failed-rule map
func (v *Validator) Fields(err error) map[string]string {
	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			fields[e.Field()] = e.Tag()
		}
	}
	return fields
}

// ErrorHandler is a middleware that handles errors in a consistent way
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default status code
	code := fiber.StatusInternalServerError

	// Check if it's a fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	// Return JSON response
	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
