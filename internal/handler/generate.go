package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/postdost/postdost/internal/handler/dto"
	"github.com/postdost/postdost/internal/middleware"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/service"
)

// GenerateHandler handles HTTP requests for post generation.
type GenerateHandler struct {
	svc    *service.GenerateService
	logger *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(svc *service.GenerateService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.svc.Generate(r.Context(), service.GenerateInput{
		ProductDescription: req.ProductDescription,
		Language:           req.Language,
		Tone:               req.Tone,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, "Invalid input", vErr.Fields)
		case errors.Is(err, service.ErrCaptionGeneration):
			writeError(w, http.StatusInternalServerError, "Failed to generate captions", nil)
		default:
			h.logger.Error("generation failed",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(r.Context()),
			)
			writeError(w, http.StatusInternalServerError, "Something went wrong", nil)
		}
		return
	}

	h.logger.Info("post_generated",
		"captions", len(result.Captions),
		"has_image", result.ImageURL != "",
	)

	writeJSON(w, http.StatusOK, dto.ToGenerateResponse(result))
}

// Options handles GET /api/generate/options.
// Lists the supported languages and tones for the generator form.
func (h *GenerateHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OptionsResponse{
		Languages: model.Languages(),
		Tones:     model.Tones(),
	})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string, details map[string]string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
