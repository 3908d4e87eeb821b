package articles

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/werkbank/postplan/internal/models"
)

// writeTestArticle puts a valid article on disk and returns its slug
func writeTestArticle(t *testing.T, root, title string, date time.Time) string {
	t.Helper()
	article := &models.Article{
		Title:       title,
		Description: "desc",
		Content:     "body",
		Date:        date,
	}
	if _, err := NewWriter(root).Write(article); err != nil {
		t.Fatalf("write test article: %v", err)
	}
	return article.Slug().String()
}

func TestFindBySlug(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slug := writeTestArticle(t, root, "Mein erster Artikel", date)

	loc, err := NewFinder(root).FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if loc == nil {
		t.Fatal("expected a location")
	}
	wantFolder := filepath.Join("articles", "2026", "03", slug)
	if loc.FolderPath != wantFolder {
		t.Errorf("FolderPath = %q, want %q", loc.FolderPath, wantFolder)
	}
	if loc.IndexPath != filepath.Join(wantFolder, "index.md") {
		t.Errorf("IndexPath = %q", loc.IndexPath)
	}
	if loc.ArticleID != "2026/03/"+slug {
		t.Errorf("ArticleID = %q", loc.ArticleID)
	}
}

func TestFindBySlugNoMatch(t *testing.T) {
	root := t.TempDir()
	writeTestArticle(t, root, "Vorhanden", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	loc, err := NewFinder(root).FindBySlug("nicht-vorhanden")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if loc != nil {
		t.Errorf("expected nil location, got %+v", loc)
	}
}

func TestFindBySlugMissingTree(t *testing.T) {
	// No articles directory at all: treated as empty, not as an error
	loc, err := NewFinder(t.TempDir()).FindBySlug("anything")
	if err != nil {
		t.Fatalf("FindBySlug on empty root: %v", err)
	}
	if loc != nil {
		t.Errorf("expected nil location, got %+v", loc)
	}
}

func TestFindBySlugIgnoresDirWithoutIndex(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "articles", "2026", "03", "leer")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}

	loc, err := NewFinder(root).FindBySlug("leer")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if loc != nil {
		t.Errorf("directory without index document must not resolve, got %+v", loc)
	}
}
