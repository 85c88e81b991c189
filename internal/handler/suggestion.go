package handler

import (
	"errors"
	"net/http"

	"github.com/postdost/postdost/internal/handler/dto"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/service"
)

// SuggestionHandler handles HTTP requests for post suggestions.
type SuggestionHandler struct {
	svc *service.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(svc *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{svc: svc}
}

// Suggest handles GET /api/suggestions?language=.
// An omitted language defaults to English.
func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if language == "" {
		language = "English"
	}

	suggestion, err := h.svc.Suggest(model.Language(language))
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, "Invalid input", vErr.Fields)
			return
		}
		writeError(w, http.StatusInternalServerError, "Something went wrong", nil)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuggestionResponse{Suggestion: suggestion})
}
