package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// stabilityEngine is the Stable Diffusion model used for image generation.
const stabilityEngine = "stable-diffusion-xl-1024-v1-0"

// ErrNoImage indicates the image service returned no artifacts.
var ErrNoImage = errors.New("stability returned no image")

// StabilityClient calls the Stability AI text-to-image REST API.
type StabilityClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewStabilityClient creates a Stability client.
// Pass nil for httpClient to use the default tuned client.
func NewStabilityClient(apiKey, baseURL string, httpClient *http.Client) *StabilityClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &StabilityClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

type stabilityTextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// GenerateImage renders the prompt with Stable Diffusion and returns
// the first artifact as a PNG data URI.
func (c *StabilityClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: prompt, Weight: 1}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.baseURL, stabilityEngine)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call stability: %w", err)
	}
	defer resp.Body.Close()

	// Images arrive base64-encoded inside JSON; allow a generous body.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("read stability response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			Service:    "stability",
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 256),
		}
	}

	var parsed stabilityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse stability response: %w", err)
	}

	if len(parsed.Artifacts) == 0 || parsed.Artifacts[0].Base64 == "" {
		return "", ErrNoImage
	}

	return "data:image/png;base64," + parsed.Artifacts[0].Base64, nil
}
