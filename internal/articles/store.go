// Package articles implements the on-disk article store: a year/month/slug
// tree of index documents with YAML front matter, plus the collision-safe
// writer that fills it.
package articles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/werkbank/postplan/internal/logger"
	"github.com/werkbank/postplan/internal/models"
)

// ErrArticleNotFound signals a mutating operation on a slug that resolves to
// nothing. Read operations report absence as a nil article instead.
var ErrArticleNotFound = errors.New("article not found")

// ContentPatch carries the fields an update may change; nil fields leave the
// stored value untouched.
type ContentPatch struct {
	Title       *string
	Description *string
	Content     *string
}

// Store reads, updates and deletes existing articles. New articles go
// through the Writer.
type Store struct {
	root   string
	finder *Finder
}

// NewStore creates a store over the given storage root
func NewStore(root string) *Store {
	return &Store{root: root, finder: NewFinder(root)}
}

// Finder exposes the store's slug resolver
func (s *Store) Finder() *Finder {
	return s.finder
}

// Read resolves a slug and parses its index document. It returns nil without
// error when the slug has no article; an unparsable document is also reported
// as nil, since nothing is written on the read path.
func (s *Store) Read(slug string) (*models.Article, error) {
	loc, err := s.finder.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(s.root, loc.IndexPath))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc.IndexPath, err)
	}

	article, err := Unmarshal(data)
	if err != nil {
		logger.Warn().Err(err).Str("slug", slug).Msg("Skipping unparsable article")
		return nil, nil
	}
	return article, nil
}

// UpdateContent merges the provided fields into an existing article's header
// and body and rewrites its index document in a single write.
func (s *Store) UpdateContent(slug string, patch ContentPatch) error {
	loc, err := s.finder.FindBySlug(slug)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}

	indexPath := filepath.Join(s.root, loc.IndexPath)
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", loc.IndexPath, err)
	}
	article, err := Unmarshal(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", loc.IndexPath, err)
	}

	if patch.Title != nil {
		article.Title = *patch.Title
	}
	if patch.Description != nil {
		article.Description = *patch.Description
	}
	if patch.Content != nil {
		article.Content = *patch.Content
	}

	out, err := Marshal(article)
	if err != nil {
		return err
	}
	if err := os.WriteFile(indexPath, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", loc.IndexPath, err)
	}
	return nil
}

// Delete removes an article's folder recursively, tolerating partially
// missing contents
func (s *Store) Delete(slug string) error {
	loc, err := s.finder.FindBySlug(slug)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}
	if err := os.RemoveAll(filepath.Join(s.root, loc.FolderPath)); err != nil {
		return fmt.Errorf("remove %s: %w", loc.FolderPath, err)
	}
	return nil
}
