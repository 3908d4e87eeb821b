// Package ai holds the clients for the external generation collaborators.
// Both speak the Google generative-language REST API through resty.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/werkbank/postplan/internal/models"
)

// GeneratedArticle is what the content collaborator returns
type GeneratedArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
}

// ContentGenerator produces a full article draft from a source URL or a
// keyword string
type ContentGenerator interface {
	GenerateArticle(ctx context.Context, input string, inputType models.InputType) (*GeneratedArticle, error)
}

type GeminiClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		client:  resty.New().SetTimeout(timeout),
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

// GenerateArticle drafts an article for the given input
func (g *GeminiClient) GenerateArticle(ctx context.Context, input string, inputType models.InputType) (*GeneratedArticle, error) {
	prompt := BuildArticlePrompt(input, inputType)

	response, err := g.callGeminiAPI(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("error calling Gemini API: %w", err)
	}

	article, err := parseArticleResponse(response)
	if err != nil {
		return nil, fmt.Errorf("error parsing Gemini response: %w", err)
	}

	return article, nil
}

func (g *GeminiClient) callGeminiAPI(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	_, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func parseArticleResponse(response string) (*GeneratedArticle, error) {
	var result struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		ContentMD   string   `json:"content_md"`
		Tags        []string `json:"tags"`
	}

	// Clean the response (sometimes Gemini adds markdown code blocks)
	cleanResponse := strings.TrimSpace(response)
	if strings.HasPrefix(cleanResponse, "```json") {
		cleanResponse = strings.TrimPrefix(cleanResponse, "```json\n")
		cleanResponse = strings.TrimSuffix(cleanResponse, "\n```")
	}

	if err := json.Unmarshal([]byte(cleanResponse), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse: %s", err, cleanResponse)
	}

	return &GeneratedArticle{
		Title:       result.Title,
		Description: result.Description,
		Content:     result.ContentMD,
		Tags:        result.Tags,
	}, nil
}
