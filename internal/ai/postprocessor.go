package ai

import (
	"fmt"
	"regexp"
	"strings"
)

type PostProcessor struct {
	minContentLength int
}

func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		minContentLength: 50,
	}
}

// ProcessArticle validates and cleans a generated article in place. Length
// clamping of title/description happens later through the SEO metadata, so
// this stage only cleans and validates.
func (p *PostProcessor) ProcessArticle(article *GeneratedArticle) error {
	// Validate required fields
	if article.Title == "" {
		return fmt.Errorf("missing required field: title")
	}
	if article.Description == "" {
		return fmt.Errorf("missing required field: description")
	}
	if len(article.Content) < p.minContentLength {
		return fmt.Errorf("content too short, minimum %d characters required", p.minContentLength)
	}

	// Clean and trim fields
	article.Title = p.cleanText(article.Title)
	article.Description = p.cleanText(article.Description)
	article.Content = p.cleanMarkdown(article.Content)

	// Ensure there is always at least one tag
	if len(article.Tags) == 0 {
		article.Tags = []string{"Blog"}
	}

	return nil
}

// cleanText removes unwanted characters and normalizes whitespace
func (p *PostProcessor) cleanText(s string) string {
	// Remove control characters
	re := regexp.MustCompile(`[\x00-\x1F\x7F]`)
	s = re.ReplaceAllString(s, " ")

	// Normalize whitespace
	s = strings.Join(strings.Fields(s), " ")

	return strings.TrimSpace(s)
}

// cleanMarkdown cleans and validates markdown content
func (p *PostProcessor) cleanMarkdown(content string) string {
	// Remove any potential XSS - using a simpler regex that doesn't use negative lookahead
	re := regexp.MustCompile(`<script[^>]*>[\s\S]*?<\/script>`)
	content = re.ReplaceAllString(content, "")

	// Also remove other potentially dangerous HTML tags
	dangerousTags := []string{"<script", "<iframe", "<object", "<embed", "<link", "<meta"}
	for _, tag := range dangerousTags {
		re := regexp.MustCompile(fmt.Sprintf(`<%s[^>]*>`, tag))
		content = re.ReplaceAllString(content, "")
	}

	// Normalize line endings
	content = strings.ReplaceAll(content, "\r\n", "\n")

	return strings.TrimSpace(content)
}
