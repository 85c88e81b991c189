package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/postdost/postdost/internal/handler/dto"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/service"
)

type stubCaptioner struct {
	captions []model.Caption
	err      error
}

func (s *stubCaptioner) GenerateCaptions(ctx context.Context, desc string, lang model.Language, tone model.Tone) ([]model.Caption, error) {
	return s.captions, s.err
}

type stubPrompter struct {
	prompt string
	err    error
}

func (s *stubPrompter) GenerateImagePrompt(ctx context.Context, desc string, tone model.Tone) (string, error) {
	return s.prompt, s.err
}

type stubImager struct {
	url string
	err error
}

func (s *stubImager) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return s.url, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubCaptions() []model.Caption {
	return []model.Caption{
		{Caption: "c1", Hashtags: "#a"},
		{Caption: "c2", Hashtags: "#b"},
		{Caption: "c3", Hashtags: "#c"},
		{Caption: "c4", Hashtags: "#d"},
	}
}

func newGenerateHandler(c *stubCaptioner, p *stubPrompter, i *stubImager) *GenerateHandler {
	svc := service.NewGenerateService(c, p, i, time.Second, discardLogger(), nil)
	return NewGenerateHandler(svc, discardLogger())
}

func postGenerate(t *testing.T, h *GenerateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	return rec
}

func TestGenerateHandler_Success(t *testing.T) {
	h := newGenerateHandler(
		&stubCaptioner{captions: stubCaptions()},
		&stubPrompter{prompt: "p"},
		&stubImager{url: "data:image/png;base64,aGk="},
	)

	rec := postGenerate(t, h, `{"productDescription":"Masala Dosa offer","language":"English","tone":"Promotional"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Captions) != 4 {
		t.Errorf("expected 4 captions, got %d", len(resp.Captions))
	}
	if resp.ImageURL == nil || *resp.ImageURL != "data:image/png;base64,aGk=" {
		t.Errorf("unexpected imageUrl: %v", resp.ImageURL)
	}
}

func TestGenerateHandler_ImageFailureReturnsNullImageURL(t *testing.T) {
	h := newGenerateHandler(
		&stubCaptioner{captions: stubCaptions()},
		&stubPrompter{prompt: "p"},
		&stubImager{err: errors.New("image service down")},
	)

	rec := postGenerate(t, h, `{"productDescription":"desc","language":"English","tone":"Funny"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["imageUrl"]) != "null" {
		t.Errorf("expected imageUrl null, got %s", raw["imageUrl"])
	}

	var captions []model.Caption
	if err := json.Unmarshal(raw["captions"], &captions); err != nil {
		t.Fatalf("failed to decode captions: %v", err)
	}
	if len(captions) != 4 {
		t.Errorf("expected 4 captions, got %d", len(captions))
	}
}

func TestGenerateHandler_CaptionFailure(t *testing.T) {
	h := newGenerateHandler(
		&stubCaptioner{err: errors.New("caption service down")},
		&stubPrompter{prompt: "p"},
		&stubImager{url: "u"},
	)

	rec := postGenerate(t, h, `{"productDescription":"desc","language":"English","tone":"Funny"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Failed to generate captions" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
}

func TestGenerateHandler_ValidationError(t *testing.T) {
	h := newGenerateHandler(&stubCaptioner{}, &stubPrompter{}, &stubImager{})

	rec := postGenerate(t, h, `{"productDescription":"desc","language":"Klingon","tone":"Funny"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Invalid input" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
	if !strings.Contains(resp.Details["language"], `"Klingon"`) {
		t.Errorf("expected details naming the invalid language, got %v", resp.Details)
	}
}

func TestGenerateHandler_MalformedJSON(t *testing.T) {
	h := newGenerateHandler(&stubCaptioner{}, &stubPrompter{}, &stubImager{})

	rec := postGenerate(t, h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateHandler_Options(t *testing.T) {
	h := newGenerateHandler(&stubCaptioner{}, &stubPrompter{}, &stubImager{})

	req := httptest.NewRequest(http.MethodGet, "/api/generate/options", nil)
	rec := httptest.NewRecorder()
	h.Options(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.OptionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Languages) == 0 || len(resp.Tones) == 0 {
		t.Errorf("expected non-empty enums, got %+v", resp)
	}
}
