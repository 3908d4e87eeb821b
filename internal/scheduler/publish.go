package scheduler

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/werkbank/postplan/internal/logger"
	"github.com/werkbank/postplan/internal/models"
	"github.com/werkbank/postplan/internal/store"
	"github.com/werkbank/postplan/internal/utils"
)

// Name of the hero-image asset next to each index document
const heroImageName = "cover.jpg"

// PublishResult reports a successful publish
type PublishResult struct {
	ID            string `json:"id"`
	PublishedPath string `json:"published_path"`
}

// PublishFailure reports a record the batch could not publish
type PublishFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult carries the explicit per-record outcome of a due-publish run
type BatchResult struct {
	Published []PublishResult  `json:"published"`
	Failed    []PublishFailure `json:"failed"`
}

// PublishPost writes a post's generated article to the permanent store and
// marks the record published. The article's date is the scheduled date, not
// the time of publishing. The hero image is written best-effort after the
// text; its failure does not roll the article back.
func (s *Service) PublishPost(ctx context.Context, id string) (*PublishResult, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.CanPublish() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, id)
	}
	if !post.HasGeneratedContent() {
		return nil, fmt.Errorf("%w: %s", ErrMissingGeneratedContent, id)
	}

	article := &models.Article{
		Title:       post.GeneratedTitle,
		Description: post.GeneratedDescription,
		Content:     post.GeneratedContent,
		Date:        post.ScheduledDate,
		Tags:        post.GeneratedTags,
	}

	imageData, imageErr := decodeImage(post.GeneratedImageData)
	if imageErr != nil {
		logger.Warn().Err(imageErr).Str("id", id).Msg("Stored image data unusable, publishing without hero image")
	}
	if imageData != nil {
		article.Image = heroImageName
		article.ImageAlt = post.GeneratedImageAlt
	}

	result, err := s.writer.Write(article)
	if err != nil {
		return nil, fmt.Errorf("write article: %w", err)
	}

	if imageData != nil {
		if err := s.writer.WriteAsset(result.FolderPath, heroImageName, imageData); err != nil {
			logger.Error().Err(err).Str("id", id).Str("folder", result.FolderPath).
				Msg("Hero image write failed, article text is kept")
		}
	}

	if err := s.markPublished(ctx, post, result.FolderPath); err != nil {
		return nil, err
	}

	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, result.FolderPath); err != nil {
			logger.Error().Err(err).Str("folder", result.FolderPath).Msg("Mirror upload failed")
		}
	}

	logger.Info().Str("id", id).Str("path", result.FolderPath).Msg("Post published")
	return &PublishResult{ID: id, PublishedPath: result.FolderPath}, nil
}

// PublishDuePosts publishes every due post, continuing past per-record
// failures so one bad record never blocks the rest of the batch.
func (s *Service) PublishDuePosts(ctx context.Context, now time.Time) (*BatchResult, error) {
	due, err := s.GetDuePosts(ctx, now)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{}
	for _, post := range due {
		result, err := s.PublishPost(ctx, post.ID)
		if err != nil {
			logger.Error().Err(err).Str("id", post.ID).Msg("Batch publish: record failed")
			batch.Failed = append(batch.Failed, PublishFailure{ID: post.ID, Reason: err.Error()})
			continue
		}
		batch.Published = append(batch.Published, *result)
	}

	if len(due) > 0 {
		logger.Info().Int("due", len(due)).Int("published", len(batch.Published)).
			Int("failed", len(batch.Failed)).Msg("Due-publish batch finished")
	}
	return batch, nil
}

// markPublished is the single place that flips a record into its terminal
// state, called only after the on-disk write succeeded
func (s *Service) markPublished(ctx context.Context, post *models.ScheduledPost, publishedPath string) error {
	published := models.StatusPublished
	if err := s.posts.Update(ctx, post.ID, store.PostPatch{
		Status:        &published,
		PublishedPath: &publishedPath,
	}); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	post.Status = published
	post.PublishedPath = publishedPath

	if s.guard != nil {
		hash := utils.Hash(models.NormalizeInput(post.Input))
		if err := s.guard.MarkPublished(ctx, hash, s.guardTTL); err != nil {
			logger.Warn().Err(err).Str("id", post.ID).Msg("Could not mark input in published guard")
		}
	}
	return nil
}

// decodeImage turns the record's base64 payload back into bytes; an empty
// payload yields nil without error
func decodeImage(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return convertToJPEG(data)
}

func encodeImage(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
