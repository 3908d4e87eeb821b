package articles

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/werkbank/postplan/internal/models"
)

const frontMatterDelimiter = "---"

// frontMatter is the structured header block at the top of every index
// document
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	ImageAlt    string   `yaml:"imageAlt,omitempty"`
}

// Marshal serializes an article into an index document: a YAML front-matter
// header followed by the markdown body. The SEO bounds are applied here so
// anything that reaches disk fits them.
func Marshal(a *models.Article) ([]byte, error) {
	meta := a.Metadata()
	fm := frontMatter{
		Title:       meta.Title(),
		Description: meta.Description(),
		Date:        a.Date.Format("2006-01-02"),
		Tags:        a.MergedTags(),
		Image:       a.Image,
		ImageAlt:    a.ImageAlt,
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var b strings.Builder
	b.Grow(len(header) + len(a.Content) + 16)
	b.WriteString(frontMatterDelimiter + "\n")
	b.Write(header)
	b.WriteString(frontMatterDelimiter + "\n\n")
	b.WriteString(a.Content)
	if !strings.HasSuffix(a.Content, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// Unmarshal parses an index document back into an article
func Unmarshal(data []byte) (*models.Article, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		return nil, fmt.Errorf("missing front matter header")
	}

	rest := text[len(frontMatterDelimiter)+1:]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter+"\n")
	if idx < 0 {
		return nil, fmt.Errorf("unterminated front matter header")
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:idx+1]), &fm); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("front matter has no title")
	}

	date, err := time.Parse("2006-01-02", fm.Date)
	if err != nil {
		return nil, fmt.Errorf("parse front matter date %q: %w", fm.Date, err)
	}

	body := strings.TrimPrefix(rest[idx+len(frontMatterDelimiter)+2:], "\n")
	return &models.Article{
		Title:       fm.Title,
		Description: fm.Description,
		Content:     strings.TrimSuffix(body, "\n"),
		Date:        date,
		Tags:        fm.Tags,
		Image:       fm.Image,
		ImageAlt:    fm.ImageAlt,
	}, nil
}
