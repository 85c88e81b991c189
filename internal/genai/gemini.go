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

	"github.com/postdost/postdost/internal/model"
)

const (
	// geminiModel is the text model used for captions and prompts.
	geminiModel = "gemini-1.5-flash"

	// maxCaptions is the number of post options requested per generation.
	maxCaptions = 4

	// MaxImagePromptLength bounds the prompt handed to the image model.
	MaxImagePromptLength = 2000
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// captionSystemInstruction steers the model toward short local-business posts.
const captionSystemInstruction = `You are a social media marketing expert for a small local business in Malayambakkam, Tamil Nadu, India. Your task is to generate up to 4 different, short, and engaging social media post options. Each post option must have a unique caption and a relevant string of hashtags. The hashtags must be a single string, starting with '#'.`

// promptSystemInstruction steers the model toward Stable Diffusion prompts.
const promptSystemInstruction = `You are an expert prompt engineer for Stability AI's Stable Diffusion image generation model.
Given a product description and tone, create a single prompt suitable for Stable Diffusion.
Make sure the prompt is less than 2000 characters. Emphasize visual appeal, clarity, and style.
Do not exceed 2000 characters.`

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewGeminiClient creates a Gemini client.
// Pass nil for httpClient to use the default tuned client.
func NewGeminiClient(apiKey, baseURL string, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// Request/response shapes for the generateContent endpoint.

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// captionSchema constrains the captions call to a JSON object of up to
// 4 caption/hashtags pairs.
var captionSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"captions": {
			"type": "ARRAY",
			"maxItems": 4,
			"items": {
				"type": "OBJECT",
				"properties": {
					"caption": {"type": "STRING"},
					"hashtags": {"type": "STRING"}
				}
			}
		}
	}
}`)

// GenerateCaptions asks Gemini for up to 4 caption/hashtag pairs.
func (c *GeminiClient) GenerateCaptions(ctx context.Context, productDescription string, language model.Language, tone model.Tone) ([]model.Caption, error) {
	userPrompt := fmt.Sprintf(`Generate %d unique social media post options based on this request, as a JSON object with a "captions" array and no other text:
- Product description: %q
- Language: %q
- Tone: %q`, maxCaptions, productDescription, language, tone)

	text, err := c.generateContent(ctx, captionSystemInstruction, userPrompt, &geminiGenerationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   captionSchema,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Captions []model.Caption `json:"captions"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parse caption response: %w", err)
	}
	if len(parsed.Captions) == 0 {
		return nil, ErrEmptyResponse
	}
	if len(parsed.Captions) > maxCaptions {
		parsed.Captions = parsed.Captions[:maxCaptions]
	}

	return parsed.Captions, nil
}

// GenerateImagePrompt asks Gemini for a Stable Diffusion prompt,
// bounded to MaxImagePromptLength characters.
func (c *GeminiClient) GenerateImagePrompt(ctx context.Context, productDescription string, tone model.Tone) (string, error) {
	userPrompt := fmt.Sprintf(`Product Description: %q
Tone: %q
Return a single prompt for Stability AI.`, productDescription, tone)

	text, err := c.generateContent(ctx, promptSystemInstruction, userPrompt, nil)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return "", ErrEmptyResponse
	}
	// The instruction caps the length, but the model can overrun.
	if len(prompt) > MaxImagePromptLength {
		prompt = prompt[:MaxImagePromptLength]
	}

	return prompt, nil
}

// generateContent performs one generateContent call and returns the
// text of the first candidate part.
func (c *GeminiClient) generateContent(ctx context.Context, systemInstruction, userPrompt string, genCfg *geminiGenerationConfig) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: genCfg,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			Service:    "gemini",
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 256),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// truncate shortens s to at most n bytes for log-safe error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
