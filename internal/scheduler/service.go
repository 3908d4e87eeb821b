// Package scheduler orchestrates the scheduled-publishing pipeline: intake,
// generation, single publish and batch due-publish.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/werkbank/postplan/internal/ai"
	"github.com/werkbank/postplan/internal/articles"
	"github.com/werkbank/postplan/internal/cache"
	"github.com/werkbank/postplan/internal/logger"
	"github.com/werkbank/postplan/internal/models"
	"github.com/werkbank/postplan/internal/store"
	"github.com/werkbank/postplan/internal/utils"
)

// Mode selects which collaborators a generate call invokes
type Mode string

const (
	ModeAll   Mode = "all"
	ModeText  Mode = "text"
	ModeImage Mode = "image"
)

// ParseMode validates a mode string, defaulting empty input to ModeAll
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModeText, ModeImage:
		return Mode(s), nil
	case "":
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown generation mode %q", s)
	}
}

// Mirror uploads a published article folder to a remote bucket
type Mirror interface {
	Upload(ctx context.Context, folderPath string) error
}

// Service owns the pending -> generated -> published transition rules.
// Generate and publish take a per-id lock since the HTTP surface makes
// concurrent callers real.
type Service struct {
	posts    store.Posts
	writer   *articles.Writer
	content  ai.ContentGenerator
	image    ai.ImageGenerator
	postProc *ai.PostProcessor
	guard    cache.Guard
	guardTTL time.Duration
	mirror   Mirror

	createMu sync.Mutex
	locks    keyedMutex
}

// Options carries the optional collaborators
type Options struct {
	Content  ai.ContentGenerator
	Image    ai.ImageGenerator
	Guard    cache.Guard
	GuardTTL time.Duration
	Mirror   Mirror
}

// NewService wires the pipeline together
func NewService(posts store.Posts, writer *articles.Writer, opts Options) *Service {
	return &Service{
		posts:    posts,
		writer:   writer,
		content:  opts.Content,
		image:    opts.Image,
		postProc: ai.NewPostProcessor(),
		guard:    opts.Guard,
		guardTTL: opts.GuardTTL,
		mirror:   opts.Mirror,
	}
}

// Create plans a new post for the given input and date. It rejects inputs
// that already have a non-published record, and inputs the guard remembers
// as published.
func (s *Service) Create(ctx context.Context, input string, scheduledDate time.Time) (*models.ScheduledPost, error) {
	norm := models.NormalizeInput(input)
	if norm == "" {
		return nil, ErrEmptyInput
	}

	if s.guard != nil {
		published, err := s.guard.IsPublished(ctx, utils.Hash(norm))
		if err != nil {
			logger.Warn().Err(err).Msg("Published-input guard unavailable, falling back to store check")
		} else if published {
			return nil, fmt.Errorf("%w: already published", ErrConflict)
		}
	}

	// Serialize the check-then-insert; the store's unique index backstops
	// callers that bypass this service.
	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.posts.FindActiveByInput(ctx, norm)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrConflict, existing.ID)
	}

	post := &models.ScheduledPost{
		Input:         input,
		InputType:     models.DetectInputType(input),
		ScheduledDate: scheduledDate,
		Status:        models.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, store.ErrDuplicateInput) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, input)
		}
		return nil, err
	}

	logger.Info().Str("id", post.ID).Str("input_type", string(post.InputType)).
		Time("scheduled_date", post.ScheduledDate).Msg("Scheduled post created")
	return post, nil
}

// Generate invokes the collaborators selected by mode and stores their
// output. A pending post advances to generated; a generated post stays
// there, so text or image can be refreshed independently. Collaborator
// failures leave the record unchanged.
func (s *Service) Generate(ctx context.Context, id string, mode Mode) (*models.ScheduledPost, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status == models.StatusPublished {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, id)
	}

	var patch store.PostPatch

	if mode == ModeAll || mode == ModeText {
		if s.content == nil {
			return nil, fmt.Errorf("%w: no content generator configured", ErrGenerationFailed)
		}
		generated, err := s.content.GenerateArticle(ctx, post.Input, post.InputType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		if err := s.postProc.ProcessArticle(generated); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		patch.GeneratedTitle = &generated.Title
		patch.GeneratedDescription = &generated.Description
		patch.GeneratedContent = &generated.Content
		patch.GeneratedTags = &generated.Tags

		post.GeneratedTitle = generated.Title
		post.GeneratedDescription = generated.Description
		post.GeneratedContent = generated.Content
		post.GeneratedTags = generated.Tags
	}

	if mode == ModeAll || mode == ModeImage {
		if s.image == nil {
			return nil, fmt.Errorf("%w: no image generator configured", ErrGenerationFailed)
		}
		// Prefer the freshly generated title, fall back to the stored one,
		// then to the raw input
		prompt := post.GeneratedTitle
		if prompt == "" {
			prompt = post.Input
		}
		img, err := s.image.GenerateImage(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		encoded := encodeImage(img.Data)
		patch.GeneratedImageData = &encoded
		patch.GeneratedImageAlt = &img.AltText

		post.GeneratedImageData = encoded
		post.GeneratedImageAlt = img.AltText
	}

	if post.Status == models.StatusPending {
		generated := models.StatusGenerated
		patch.Status = &generated
		post.Status = generated
	}

	if err := s.posts.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	logger.Info().Str("id", id).Str("mode", string(mode)).Msg("Post content generated")
	return post, nil
}

// GetByID reads one record through the persistence adapter
func (s *Service) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	return s.posts.GetByID(ctx, id)
}

// List reads all records through the persistence adapter
func (s *Service) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	return s.posts.List(ctx)
}

// GetDuePosts returns generated posts whose scheduled date is at or before
// the given reference time
func (s *Service) GetDuePosts(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	return s.posts.QueryByStatusAndDueDate(ctx, models.StatusGenerated, now)
}

// Delete removes a record. Publication is permanent, so deleting a
// published record is forbidden.
func (s *Service) Delete(ctx context.Context, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Status == models.StatusPublished {
		return fmt.Errorf("%w: %s", ErrForbidden, id)
	}
	return s.posts.Delete(ctx, id)
}
