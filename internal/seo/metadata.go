package seo

import "fmt"

// Search engines cut off titles around 60 and descriptions around 155
// characters, so that is where we clamp.
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 155
)

// Metadata holds the length-bounded title/description pair that ends up in
// an article's header. Both constructors guarantee the bounds; they differ
// only in how they treat over-length input.
type Metadata struct {
	title       string
	description string
}

// NewMetadata rejects input that exceeds the length bounds
func NewMetadata(title, description string) (Metadata, error) {
	if n := len([]rune(title)); n > MaxTitleLength {
		return Metadata{}, fmt.Errorf("seo title exceeds %d characters (got %d)", MaxTitleLength, n)
	}
	if n := len([]rune(description)); n > MaxDescriptionLength {
		return Metadata{}, fmt.Errorf("seo description exceeds %d characters (got %d)", MaxDescriptionLength, n)
	}
	return Metadata{title: title, description: description}, nil
}

// TruncateMetadata clips over-length input to fit the bounds, appending an
// ellipsis. Input that already fits is passed through unchanged.
func TruncateMetadata(title, description string) Metadata {
	return Metadata{
		title:       truncate(title, MaxTitleLength),
		description: truncate(description, MaxDescriptionLength),
	}
}

// Title returns the bounded title
func (m Metadata) Title() string {
	return m.title
}

// Description returns the bounded description
func (m Metadata) Description() string {
	return m.description
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
