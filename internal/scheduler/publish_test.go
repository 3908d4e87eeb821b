package scheduler

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/werkbank/postplan/internal/articles"
	"github.com/werkbank/postplan/internal/models"
	"github.com/werkbank/postplan/internal/store"
)

func TestPublishWithoutGeneratedContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post, _ := env.svc.Create(ctx, "https://example.com/a11y-forms", time.Now())

	_, err := env.svc.PublishPost(ctx, post.ID)
	if !errors.Is(err, ErrMissingGeneratedContent) {
		t.Errorf("expected ErrMissingGeneratedContent, got %v", err)
	}

	got, _ := env.svc.GetByID(ctx, post.ID)
	if got.Status != models.StatusPending {
		t.Errorf("failed publish changed status to %s", got.Status)
	}
}

func TestPublishGeneratedPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduled := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	post, _ := env.svc.Create(ctx, "https://example.com/a11y-forms", scheduled)
	if _, err := env.svc.Generate(ctx, post.ID, ModeAll); err != nil {
		t.Fatal(err)
	}

	result, err := env.svc.PublishPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("PublishPost: %v", err)
	}
	if result.PublishedPath == "" {
		t.Fatal("expected a published path")
	}

	got, _ := env.svc.GetByID(ctx, post.ID)
	if got.Status != models.StatusPublished {
		t.Errorf("status = %s, want published", got.Status)
	}
	if got.PublishedPath != result.PublishedPath {
		t.Errorf("record path %q != result path %q", got.PublishedPath, result.PublishedPath)
	}

	// The article landed where title and scheduled date say it should
	wantFolder := filepath.Join("articles", "2026", "03", "5-tipps-fuer-barrierefreie-formulare")
	if result.PublishedPath != wantFolder {
		t.Errorf("published path = %q, want %q", result.PublishedPath, wantFolder)
	}
	data, err := os.ReadFile(filepath.Join(env.root, wantFolder, "index.md"))
	if err != nil {
		t.Fatalf("read published article: %v", err)
	}
	article, err := articles.Unmarshal(data)
	if err != nil {
		t.Fatalf("parse published article: %v", err)
	}
	// The permanent date is the planned one, not the time of publishing
	if !article.Date.Equal(scheduled) {
		t.Errorf("article date = %v, want scheduled %v", article.Date, scheduled)
	}
	if article.Image != "cover.jpg" || article.ImageAlt == "" {
		t.Errorf("image reference = %q / %q", article.Image, article.ImageAlt)
	}

	// Hero image sibling exists and is a JPEG
	imgFile, err := os.Open(filepath.Join(env.root, wantFolder, "cover.jpg"))
	if err != nil {
		t.Fatalf("open hero image: %v", err)
	}
	defer imgFile.Close()
	_, format, err := image.Decode(imgFile)
	if err != nil {
		t.Fatalf("decode hero image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("hero image format = %q, want jpeg", format)
	}
}

func TestPublishPendingWithContent(t *testing.T) {
	// Generated fields filled out of band allow a direct pending -> published
	// jump; the guard is on the fields, not the status.
	env := newTestEnv(t)
	ctx := context.Background()
	post, _ := env.svc.Create(ctx, "https://example.com/a11y-forms", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	title := "Vorbefüllter Titel"
	content := "Vorbefüllter Inhalt."
	if err := env.posts.Update(ctx, post.ID, store.PostPatch{
		GeneratedTitle:   &title,
		GeneratedContent: &content,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := env.svc.PublishPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("PublishPost from pending: %v", err)
	}
	got, _ := env.svc.GetByID(ctx, post.ID)
	if got.Status != models.StatusPublished || got.PublishedPath != result.PublishedPath {
		t.Errorf("record after publish: %+v", got)
	}
}

func TestPublishTwiceForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post, _ := env.svc.Create(ctx, "https://example.com/a11y-forms", time.Now())
	if _, err := env.svc.Generate(ctx, post.ID, ModeText); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.PublishPost(ctx, post.ID); err != nil {
		t.Fatal(err)
	}

	_, err := env.svc.PublishPost(ctx, post.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestPublishedInputCannotBeRescheduled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post, _ := env.svc.Create(ctx, "https://example.com/a11y-forms", time.Now())
	if _, err := env.svc.Generate(ctx, post.ID, ModeText); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.PublishPost(ctx, post.ID); err != nil {
		t.Fatal(err)
	}

	// The guard remembers the published input even though no active record
	// blocks it anymore
	_, err := env.svc.Create(ctx, "https://example.com/a11y-forms", time.Now().AddDate(0, 1, 0))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for already-published input, got %v", err)
	}
}

func TestPublishDuePostsContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	good, _ := env.svc.Create(ctx, "https://example.com/good", now.Add(-time.Hour))
	if _, err := env.svc.Generate(ctx, good.ID, ModeText); err != nil {
		t.Fatal(err)
	}

	// Due by status and date, but its generated content was cleared: this
	// record must fail without blocking the batch
	bad, _ := env.svc.Create(ctx, "https://example.com/bad", now.Add(-time.Hour))
	generated := models.StatusGenerated
	if err := env.posts.Update(ctx, bad.ID, store.PostPatch{Status: &generated}); err != nil {
		t.Fatal(err)
	}

	batch, err := env.svc.PublishDuePosts(ctx, now)
	if err != nil {
		t.Fatalf("PublishDuePosts: %v", err)
	}
	if len(batch.Published) != 1 || batch.Published[0].ID != good.ID {
		t.Errorf("published = %+v, want only the good record", batch.Published)
	}
	if len(batch.Failed) != 1 || batch.Failed[0].ID != bad.ID {
		t.Errorf("failed = %+v, want only the bad record", batch.Failed)
	}
	if batch.Failed[0].Reason == "" {
		t.Error("failure carries no reason")
	}

	goodRecord, _ := env.svc.GetByID(ctx, good.ID)
	if goodRecord.Status != models.StatusPublished {
		t.Errorf("good record status = %s", goodRecord.Status)
	}
	badRecord, _ := env.svc.GetByID(ctx, bad.ID)
	if badRecord.Status != models.StatusGenerated {
		t.Errorf("bad record status = %s", badRecord.Status)
	}
}

func TestScheduleGeneratePublishFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduled := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	post, err := env.svc.Create(ctx, "https://example.com/a11y-forms", scheduled)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Status != models.StatusPending {
		t.Fatalf("status after create = %s", post.Status)
	}

	post, err = env.svc.Generate(ctx, post.ID, ModeAll)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if post.Status != models.StatusGenerated || post.GeneratedTitle == "" {
		t.Fatalf("record after generate: %+v", post)
	}

	result, err := env.svc.PublishPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("PublishPost: %v", err)
	}

	indexPath := filepath.Join(env.root, "articles", "2026", "03",
		"5-tipps-fuer-barrierefreie-formulare", "index.md")
	if _, err := os.Stat(indexPath); err != nil {
		t.Fatalf("published article missing at %s: %v", indexPath, err)
	}

	final, _ := env.svc.GetByID(ctx, post.ID)
	if final.Status != models.StatusPublished || final.PublishedPath != result.PublishedPath {
		t.Errorf("final record: %+v", final)
	}
}
