// Package store persists scheduled-post records in SQLite
// (modernc.org/sqlite, pure Go).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/werkbank/postplan/internal/models"
)

// ErrNotFound signals that no record exists for the given id
var ErrNotFound = errors.New("scheduled post not found")

// ErrDuplicateInput signals the unique-input backstop at the database level
var ErrDuplicateInput = errors.New("input already scheduled")

// PostPatch carries a partial update; nil fields leave the stored value
// untouched.
type PostPatch struct {
	Status               *models.Status
	GeneratedTitle       *string
	GeneratedDescription *string
	GeneratedContent     *string
	GeneratedTags        *[]string
	GeneratedImageData   *string
	GeneratedImageAlt    *string
	PublishedPath        *string
}

// Posts is the persistence adapter the scheduler service consumes
type Posts interface {
	Create(ctx context.Context, post *models.ScheduledPost) error
	GetByID(ctx context.Context, id string) (*models.ScheduledPost, error)
	List(ctx context.Context) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, id string, patch PostPatch) error
	Delete(ctx context.Context, id string) error
	QueryByStatusAndDueDate(ctx context.Context, status models.Status, now time.Time) ([]*models.ScheduledPost, error)
	FindActiveByInput(ctx context.Context, normalizedInput string) (*models.ScheduledPost, error)
}
