package ai

import (
	"fmt"
	"strings"

	"github.com/werkbank/postplan/internal/models"
)

// PromptTemplates contains the prompt templates for the generation
// collaborators
var PromptTemplates = struct {
	ArticleFromURL      string
	ArticleFromKeywords string
	HeroImage           string
}{
	ArticleFromURL: `You are an expert German content-marketing writer and SEO specialist.
Read the page at the following URL and write an original German article inspired by it with these requirements:

1. Title: catchy, under 60 characters
2. Description: 1-2 sentences, under 155 characters
3. Main Content: well-structured markdown with headings and paragraphs
4. Tags: 3-5 relevant keywords

Format your response as a valid JSON object with these fields:
- title (string)
- description (string)
- content_md (markdown formatted string)
- tags (array of strings)

Source URL: %s`,

	ArticleFromKeywords: `You are an expert German content-marketing writer and SEO specialist.
Write an original German article about the following topic with these requirements:

1. Title: catchy, under 60 characters
2. Description: 1-2 sentences, under 155 characters
3. Main Content: well-structured markdown with headings and paragraphs
4. Tags: 3-5 relevant keywords

Format your response as a valid JSON object with these fields:
- title (string)
- description (string)
- content_md (markdown formatted string)
- tags (array of strings)

Topic keywords: %s`,

	HeroImage: `A clean, modern editorial illustration for a German web-design blog article titled "%s". Flat design, muted colors, no text in the image.`,
}

// BuildArticlePrompt picks the template matching the input type
func BuildArticlePrompt(input string, inputType models.InputType) string {
	input = escapeForPrompt(input)
	if inputType == models.InputTypeURL {
		return fmt.Sprintf(PromptTemplates.ArticleFromURL, input)
	}
	return fmt.Sprintf(PromptTemplates.ArticleFromKeywords, input)
}

// BuildImagePrompt creates the hero-image prompt for an article title
func BuildImagePrompt(title string) string {
	return fmt.Sprintf(PromptTemplates.HeroImage, escapeForPrompt(title))
}

// escapeForPrompt escapes special characters for use in prompts
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
