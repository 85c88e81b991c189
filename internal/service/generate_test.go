package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/postdost/postdost/internal/metrics"
	"github.com/postdost/postdost/internal/model"
)

// Fakes for the three upstream capabilities.

type fakeCaptioner struct {
	captions []model.Caption
	err      error
	delay    time.Duration
}

func (f *fakeCaptioner) GenerateCaptions(ctx context.Context, desc string, lang model.Language, tone model.Tone) ([]model.Caption, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.captions, f.err
}

type fakePrompter struct {
	prompt string
	err    error
}

func (f *fakePrompter) GenerateImagePrompt(ctx context.Context, desc string, tone model.Tone) (string, error) {
	return f.prompt, f.err
}

type fakeImager struct {
	url    string
	err    error
	called bool
}

func (f *fakeImager) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.called = true
	return f.url, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fourCaptions() []model.Caption {
	return []model.Caption{
		{Caption: "c1", Hashtags: "#a"},
		{Caption: "c2", Hashtags: "#b"},
		{Caption: "c3", Hashtags: "#c"},
		{Caption: "c4", Hashtags: "#d"},
	}
}

func newGenerateService(c CaptionGenerator, p PromptGenerator, i ImageGenerator, rec metrics.Recorder) *GenerateService {
	return NewGenerateService(c, p, i, time.Second, testLogger(), rec)
}

func TestGenerate_FullSuccess(t *testing.T) {
	imager := &fakeImager{url: "data:image/png;base64,aGk="}
	svc := newGenerateService(
		&fakeCaptioner{captions: fourCaptions()},
		&fakePrompter{prompt: "a vivid dosa"},
		imager,
		nil,
	)

	result, err := svc.Generate(context.Background(), GenerateInput{
		ProductDescription: "Masala Dosa offer",
		Language:           "English",
		Tone:               "Promotional",
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if len(result.Captions) != 4 {
		t.Errorf("expected 4 captions, got %d", len(result.Captions))
	}
	if result.ImageURL != "data:image/png;base64,aGk=" {
		t.Errorf("unexpected image URL: %s", result.ImageURL)
	}
	if !imager.called {
		t.Error("expected image generator to be called")
	}
}

func TestGenerate_ImageFailureIsDegraded(t *testing.T) {
	rec := metrics.NewInMemory()
	svc := newGenerateService(
		&fakeCaptioner{captions: fourCaptions()},
		&fakePrompter{prompt: "prompt"},
		&fakeImager{err: errors.New("stability down")},
		rec,
	)

	result, err := svc.Generate(context.Background(), GenerateInput{
		ProductDescription: "Masala Dosa offer",
		Language:           "English",
		Tone:               "Promotional",
	})
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}

	if len(result.Captions) != 4 {
		t.Errorf("expected 4 captions, got %d", len(result.Captions))
	}
	if result.ImageURL != "" {
		t.Errorf("expected empty image URL, got %s", result.ImageURL)
	}

	if got := rec.Snapshot().Generations["degraded"]; got != 1 {
		t.Errorf("expected 1 degraded generation, got %d", got)
	}
}

func TestGenerate_PromptFailureSkipsImageCall(t *testing.T) {
	imager := &fakeImager{url: "should-not-be-used"}
	svc := newGenerateService(
		&fakeCaptioner{captions: fourCaptions()},
		&fakePrompter{err: errors.New("prompt service down")},
		imager,
		nil,
	)

	result, err := svc.Generate(context.Background(), GenerateInput{
		ProductDescription: "desc",
		Language:           "Tamil",
		Tone:               "Festive",
	})
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}

	if result.ImageURL != "" {
		t.Errorf("expected empty image URL, got %s", result.ImageURL)
	}
	if imager.called {
		t.Error("image generator must not be called when the prompt call fails")
	}
}

func TestGenerate_CaptionFailureIsFatal(t *testing.T) {
	rec := metrics.NewInMemory()
	svc := newGenerateService(
		&fakeCaptioner{err: errors.New("gemini down")},
		&fakePrompter{prompt: "prompt"},
		&fakeImager{url: "data:image/png;base64,x"},
		rec,
	)

	_, err := svc.Generate(context.Background(), GenerateInput{
		ProductDescription: "desc",
		Language:           "Hindi",
		Tone:               "Formal",
	})
	if !errors.Is(err, ErrCaptionGeneration) {
		t.Fatalf("expected ErrCaptionGeneration, got %v", err)
	}

	if got := rec.Snapshot().Generations["failed"]; got != 1 {
		t.Errorf("expected 1 failed generation, got %d", got)
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	svc := newGenerateService(&fakeCaptioner{}, &fakePrompter{}, &fakeImager{}, nil)

	tests := []struct {
		name  string
		input GenerateInput
		field string
		want  string
	}{
		{
			name:  "empty description",
			input: GenerateInput{ProductDescription: "  ", Language: "English", Tone: "Funny"},
			field: "productDescription",
			want:  "required",
		},
		{
			name:  "unsupported language",
			input: GenerateInput{ProductDescription: "desc", Language: "Klingon", Tone: "Funny"},
			field: "language",
			want:  `"Klingon"`,
		},
		{
			name:  "unsupported tone",
			input: GenerateInput{ProductDescription: "desc", Language: "English", Tone: "Sarcastic"},
			field: "tone",
			want:  `"Sarcastic"`,
		},
		{
			name:  "oversized description",
			input: GenerateInput{ProductDescription: strings.Repeat("x", 2001), Language: "English", Tone: "Funny"},
			field: "productDescription",
			want:  "2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.input)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			msg, ok := vErr.Fields[tt.field]
			if !ok {
				t.Fatalf("expected error on field %q, got %v", tt.field, vErr.Fields)
			}
			if !strings.Contains(msg, tt.want) {
				t.Errorf("expected message naming %q, got %q", tt.want, msg)
			}
		})
	}
}

func TestGenerate_CallsRunConcurrently(t *testing.T) {
	// Both fan-out calls sleep; if they ran sequentially the total
	// would exceed the deadline below.
	const delay = 100 * time.Millisecond

	svc := NewGenerateService(
		&fakeCaptioner{captions: fourCaptions(), delay: delay},
		&slowPrompter{prompt: "p", delay: delay},
		&fakeImager{url: "u"},
		time.Second,
		testLogger(),
		nil,
	)

	start := time.Now()
	if _, err := svc.Generate(context.Background(), GenerateInput{
		ProductDescription: "desc",
		Language:           "English",
		Tone:               "Funny",
	}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 180*time.Millisecond {
		t.Errorf("fan-out calls appear sequential: took %s", elapsed)
	}
}

type slowPrompter struct {
	prompt string
	delay  time.Duration
}

func (f *slowPrompter) GenerateImagePrompt(ctx context.Context, desc string, tone model.Tone) (string, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return f.prompt, nil
}
