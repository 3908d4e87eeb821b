package articles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRead(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slug := writeTestArticle(t, root, "Lesbarer Artikel", date)

	article, err := NewStore(root).Read(slug)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if article == nil {
		t.Fatal("expected an article")
	}
	if article.Title != "Lesbarer Artikel" {
		t.Errorf("title = %q", article.Title)
	}
}

func TestStoreReadMissingIsNil(t *testing.T) {
	article, err := NewStore(t.TempDir()).Read("fehlt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if article != nil {
		t.Errorf("expected nil for missing article, got %+v", article)
	}
}

func TestStoreReadCorruptIsNil(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "articles", "2026", "03", "kaputt")
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, "index.md"), []byte("no front matter"), 0644); err != nil {
		t.Fatal(err)
	}

	article, err := NewStore(root).Read("kaputt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if article != nil {
		t.Errorf("expected nil for unparsable article, got %+v", article)
	}
}

func TestStoreUpdateContent(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slug := writeTestArticle(t, root, "Alter Titel", date)

	store := NewStore(root)
	newContent := "# Neu\n\nGanz neuer Text."
	err := store.UpdateContent(slug, ContentPatch{Content: &newContent})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	article, err := store.Read(slug)
	if err != nil || article == nil {
		t.Fatalf("Read after update: %v, %v", article, err)
	}
	if article.Content != newContent {
		t.Errorf("content = %q, want %q", article.Content, newContent)
	}
	// Untouched fields keep their values
	if article.Title != "Alter Titel" {
		t.Errorf("title changed to %q", article.Title)
	}
	if article.Description != "desc" {
		t.Errorf("description changed to %q", article.Description)
	}
}

func TestStoreUpdateContentMissing(t *testing.T) {
	title := "x"
	err := NewStore(t.TempDir()).UpdateContent("fehlt", ContentPatch{Title: &title})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slug := writeTestArticle(t, root, "Zu löschen", date)

	store := NewStore(root)
	if err := store.Delete(slug); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "articles", "2026", "03", slug)); !os.IsNotExist(err) {
		t.Error("article folder still exists after delete")
	}

	if err := store.Delete(slug); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("second delete: expected ErrArticleNotFound, got %v", err)
	}
}
