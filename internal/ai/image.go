package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// GeneratedImage is what the image collaborator returns
type GeneratedImage struct {
	Data    []byte
	AltText string
}

// ImageGenerator produces a hero image for an article title
type ImageGenerator interface {
	GenerateImage(ctx context.Context, title string) (*GeneratedImage, error)
}

type ImagenClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewImagenClient(apiKey, model string, timeout time.Duration) *ImagenClient {
	return &ImagenClient{
		client:  resty.New().SetTimeout(timeout),
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

// GenerateImage renders a hero image for the title and derives its alt text
func (c *ImagenClient) GenerateImage(ctx context.Context, title string) (*GeneratedImage, error) {
	url := fmt.Sprintf("%s/%s:predict?key=%s", c.baseURL, c.model, c.apiKey)

	req := imagenRequest{
		Instances: []imagenInstance{{
			Prompt: BuildImagePrompt(title),
		}},
		Parameters: imagenParameters{
			SampleCount: 1,
			AspectRatio: "16:9",
		},
	}

	var resp imagenResponse
	_, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(url)

	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return nil, fmt.Errorf("no image in response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	return &GeneratedImage{
		Data:    data,
		AltText: fmt.Sprintf("Illustration zum Artikel: %s", title),
	}, nil
}
