package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/werkbank/postplan/internal/seo"
)

// Core tags every published article carries; incoming tags that duplicate
// one of these are dropped during the merge.
var CoreTags = []string{"Webdesign", "SEO"}

// Article represents one publishable post. Its storage location is a pure
// function of title and date; colliding locations are disambiguated by the
// file writer, never by mutating the article.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image,omitempty"`
	ImageAlt    string    `json:"image_alt,omitempty"`
}

// Slug derives the URL-safe identifier from the title
func (a *Article) Slug() seo.Slug {
	return seo.NewSlug(a.Title)
}

// Metadata derives the length-bounded SEO pair. The pipeline always goes
// through the truncating factory so an over-length title can never fail a
// publish.
func (a *Article) Metadata() seo.Metadata {
	return seo.TruncateMetadata(a.Title, a.Description)
}

// Year returns the four-digit publication year
func (a *Article) Year() string {
	return a.Date.Format("2006")
}

// Month returns the zero-padded publication month
func (a *Article) Month() string {
	return a.Date.Format("01")
}

// Filename returns the slug-based markdown file name
func (a *Article) Filename() string {
	return a.Slug().String() + ".md"
}

// FolderPath returns the article directory relative to the storage root,
// e.g. articles/2026/03/my-slug
func (a *Article) FolderPath() string {
	return filepath.Join("articles", a.Year(), a.Month(), a.Slug().String())
}

// Filepath returns the index document path relative to the storage root
func (a *Article) Filepath() string {
	return filepath.Join(a.FolderPath(), "index.md")
}

// MergedTags returns the core tags followed by the article's own tags, with
// duplicates of the core set (and among the input) removed. Order of the
// input tags is preserved.
func (a *Article) MergedTags() []string {
	seen := make(map[string]bool, len(CoreTags)+len(a.Tags))
	merged := make([]string, 0, len(CoreTags)+len(a.Tags))
	for _, t := range CoreTags {
		seen[strings.ToLower(t)] = true
		merged = append(merged, t)
	}
	for _, t := range a.Tags {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, strings.TrimSpace(t))
	}
	return merged
}
