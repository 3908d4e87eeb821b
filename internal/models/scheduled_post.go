package models

import (
	"net/url"
	"strings"
	"time"
)

// Status is the lifecycle state of a scheduled post. Transitions are
// strictly forward: pending -> generated -> published.
type Status string

const (
	StatusPending   Status = "pending"
	StatusGenerated Status = "generated"
	StatusPublished Status = "published"
)

// InputType tells whether a post's input is a source URL or a keyword string
type InputType string

const (
	InputTypeURL      InputType = "url"
	InputTypeKeywords InputType = "keywords"
)

// ScheduledPost is the planning record for a future article. The store owns
// its persistence; the scheduler service owns the transition rules.
type ScheduledPost struct {
	ID                   string    `json:"id"`
	Input                string    `json:"input"`
	InputType            InputType `json:"input_type"`
	ScheduledDate        time.Time `json:"scheduled_date"`
	Status               Status    `json:"status"`
	GeneratedTitle       string    `json:"generated_title,omitempty"`
	GeneratedDescription string    `json:"generated_description,omitempty"`
	GeneratedContent     string    `json:"generated_content,omitempty"`
	GeneratedTags        []string  `json:"generated_tags,omitempty"`
	GeneratedImageData   string    `json:"generated_image_data,omitempty"` // base64
	GeneratedImageAlt    string    `json:"generated_image_alt,omitempty"`
	PublishedPath        string    `json:"published_path,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// DetectInputType probes whether the input parses as an absolute http(s) URL
func DetectInputType(input string) InputType {
	u, err := url.Parse(strings.TrimSpace(input))
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return InputTypeURL
	}
	return InputTypeKeywords
}

// NormalizeInput lowers and collapses whitespace so the duplicate guard is
// case- and whitespace-insensitive
func NormalizeInput(input string) string {
	return strings.ToLower(strings.Join(strings.Fields(input), " "))
}

// CanPublish is true until the post reaches its terminal state. A pending
// post whose generated fields were filled out of band may publish directly.
func (p *ScheduledPost) CanPublish() bool {
	return p.Status != StatusPublished
}

// HasGeneratedContent reports whether the fields a publish requires are set
func (p *ScheduledPost) HasGeneratedContent() bool {
	return p.GeneratedTitle != "" && p.GeneratedContent != ""
}

// IsDue reports whether the post is ready for the batch-publish path at the
// given reference time
func (p *ScheduledPost) IsDue(now time.Time) bool {
	return p.Status == StatusGenerated && !p.ScheduledDate.After(now)
}
