package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/postdost/postdost/internal/model"
)

// geminiTextResponse builds a generateContent response wrapping the given text.
func geminiTextResponse(text string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGeminiClient_GenerateCaptions(t *testing.T) {
	captionsJSON := `{"captions":[
		{"caption":"Fresh masala dosa today!","hashtags":"#dosa #chennai"},
		{"caption":"Crispy, golden, gone in minutes.","hashtags":"#breakfast"},
		{"caption":"Weekend special at our kitchen.","hashtags":"#local"},
		{"caption":"Taste the tradition.","hashtags":"#tamilnadu"}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
			t.Error("expected a system instruction")
		}
		if req.GenerationConfig == nil || req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Error("expected JSON response mime type for captions")
		}

		// The prompt wording must ask for the same shape the response
		// schema enforces: an object wrapping a "captions" array.
		if len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
			t.Fatal("expected a user prompt in the request")
		}
		userPrompt := req.Contents[0].Parts[0].Text
		if !strings.Contains(userPrompt, `JSON object with a "captions" array`) {
			t.Errorf("prompt does not describe the schema's object shape: %s", userPrompt)
		}
		if strings.Contains(userPrompt, "JSON array with no other text") {
			t.Errorf("prompt asks for a bare array, contradicting the response schema: %s", userPrompt)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiTextResponse(captionsJSON)))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, srv.Client())

	captions, err := client.GenerateCaptions(context.Background(), "Masala Dosa offer", model.LanguageEnglish, model.TonePromotional)
	if err != nil {
		t.Fatalf("GenerateCaptions error: %v", err)
	}

	if len(captions) != 4 {
		t.Fatalf("expected 4 captions, got %d", len(captions))
	}
	if captions[0].Caption != "Fresh masala dosa today!" {
		t.Errorf("unexpected first caption: %s", captions[0].Caption)
	}
	if !strings.HasPrefix(captions[0].Hashtags, "#") {
		t.Errorf("expected hashtags starting with #, got %s", captions[0].Hashtags)
	}
}

func TestGeminiClient_GenerateCaptions_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, srv.Client())

	_, err := client.GenerateCaptions(context.Background(), "desc", model.LanguageEnglish, model.ToneFunny)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upErr.StatusCode)
	}
}

func TestGeminiClient_GenerateImagePrompt_TruncatesOverrun(t *testing.T) {
	long := strings.Repeat("a vivid scene ", 500) // well past 2000 chars

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiTextResponse(long)))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, srv.Client())

	prompt, err := client.GenerateImagePrompt(context.Background(), "desc", model.ToneFestive)
	if err != nil {
		t.Fatalf("GenerateImagePrompt error: %v", err)
	}

	if len(prompt) != MaxImagePromptLength {
		t.Errorf("expected prompt truncated to %d chars, got %d", MaxImagePromptLength, len(prompt))
	}
}

func TestGeminiClient_GenerateImagePrompt_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiTextResponse("   ")))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, srv.Client())

	_, err := client.GenerateImagePrompt(context.Background(), "desc", model.ToneFormal)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiClient_MissingAPIKey(t *testing.T) {
	client := NewGeminiClient("", "http://unused", nil)

	_, err := client.GenerateCaptions(context.Background(), "desc", model.LanguageTamil, model.TonePromotional)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
