// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/postdost/postdost/internal/metrics"
	"github.com/postdost/postdost/internal/model"
)

// ErrCaptionGeneration indicates the caption call failed; the whole
// generation fails with it. Image failures never produce this error.
var ErrCaptionGeneration = errors.New("caption generation failed")

// maxDescriptionLength bounds the product description a caller may submit.
const maxDescriptionLength = 2000

// ValidationError reports field-level input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(msgs, ", ")
}

// CaptionGenerator produces caption/hashtag pairs for a post.
type CaptionGenerator interface {
	GenerateCaptions(ctx context.Context, productDescription string, language model.Language, tone model.Tone) ([]model.Caption, error)
}

// PromptGenerator produces an image-generation prompt for a post.
type PromptGenerator interface {
	GenerateImagePrompt(ctx context.Context, productDescription string, tone model.Tone) (string, error)
}

// ImageGenerator renders a prompt into an image data URI.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// GenerateService orchestrates the caption, prompt, and image calls
// for one post-generation request.
type GenerateService struct {
	captions CaptionGenerator
	prompts  PromptGenerator
	images   ImageGenerator
	timeout  time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewGenerateService creates a GenerateService.
// timeout bounds each upstream call individually.
func NewGenerateService(
	captions CaptionGenerator,
	prompts PromptGenerator,
	images ImageGenerator,
	timeout time.Duration,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *GenerateService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &GenerateService{
		captions: captions,
		prompts:  prompts,
		images:   images,
		timeout:  timeout,
		logger:   logger.With("component", "service.generate"),
		metrics:  recorder,
	}
}

// GenerateInput is the raw request for one generation.
// Language and Tone arrive as strings and are validated against the enums.
type GenerateInput struct {
	ProductDescription string
	Language           string
	Tone               string
}

// Validate checks the input and returns a field-keyed ValidationError
// when anything is off.
func (s *GenerateService) Validate(input GenerateInput) (model.Language, model.Tone, error) {
	fields := make(map[string]string)

	desc := strings.TrimSpace(input.ProductDescription)
	if desc == "" {
		fields["productDescription"] = "product description is required"
	} else if len(desc) > maxDescriptionLength {
		fields["productDescription"] = fmt.Sprintf("product description exceeds %d characters", maxDescriptionLength)
	}

	language := model.Language(input.Language)
	if !language.IsValid() {
		fields["language"] = fmt.Sprintf("unsupported language %q, must be one of %v", input.Language, model.Languages())
	}

	tone := model.Tone(input.Tone)
	if !tone.IsValid() {
		fields["tone"] = fmt.Sprintf("unsupported tone %q, must be one of %v", input.Tone, model.Tones())
	}

	if len(fields) > 0 {
		return "", "", &ValidationError{Fields: fields}
	}

	return language, tone, nil
}

// Generate produces captions and, best effort, an image for the input.
//
// The caption and image-prompt calls run concurrently; the image call
// waits on the prompt. A caption failure fails the whole operation. A
// prompt or image failure degrades the result: captions are returned
// and ImageURL stays empty.
func (s *GenerateService) Generate(ctx context.Context, input GenerateInput) (*model.GenerationResult, error) {
	language, tone, err := s.Validate(input)
	if err != nil {
		s.metrics.IncGeneration("invalid")
		return nil, err
	}

	desc := strings.TrimSpace(input.ProductDescription)
	start := time.Now()

	type captionOut struct {
		captions []model.Caption
		err      error
	}
	type promptOut struct {
		prompt string
		err    error
	}

	captionCh := make(chan captionOut, 1)
	promptCh := make(chan promptOut, 1)

	go func() {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		captions, err := s.captions.GenerateCaptions(callCtx, desc, language, tone)
		captionCh <- captionOut{captions: captions, err: err}
	}()

	go func() {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		prompt, err := s.prompts.GenerateImagePrompt(callCtx, desc, tone)
		promptCh <- promptOut{prompt: prompt, err: err}
	}()

	capRes := <-captionCh
	promptRes := <-promptCh

	if capRes.err != nil {
		s.logger.Error("caption generation failed",
			slog.String("language", string(language)),
			slog.String("tone", string(tone)),
			slog.String("error", capRes.err.Error()),
		)
		s.metrics.IncGeneration("failed")
		return nil, fmt.Errorf("%w: %s", ErrCaptionGeneration, capRes.err)
	}

	result := &model.GenerationResult{Captions: capRes.captions}

	imageURL, imgErr := s.generateImage(ctx, promptRes.prompt, promptRes.err)
	if imgErr != nil {
		// Degraded result: captions without an image.
		s.logger.Warn("image generation failed, returning captions only",
			slog.String("tone", string(tone)),
			slog.String("error", imgErr.Error()),
		)
		s.metrics.IncGeneration("degraded")
	} else {
		result.ImageURL = imageURL
		s.metrics.IncGeneration("success")
	}

	s.metrics.ObserveGenerationDuration(time.Since(start))

	return result, nil
}

// generateImage runs the sequential prompt-then-render leg.
func (s *GenerateService) generateImage(ctx context.Context, prompt string, promptErr error) (string, error) {
	if promptErr != nil {
		return "", fmt.Errorf("image prompt: %w", promptErr)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	imageURL, err := s.images.GenerateImage(callCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("render image: %w", err)
	}

	return imageURL, nil
}
