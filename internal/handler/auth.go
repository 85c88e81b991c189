package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/postdost/postdost/internal/auth"
	"github.com/postdost/postdost/internal/handler/dto"
	"github.com/postdost/postdost/internal/middleware"
	"github.com/postdost/postdost/internal/service"
)

// AuthHandler handles HTTP requests for signup, login, and session info.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result))
}

// Logout handles POST /api/auth/logout.
// Tokens are stateless, so this only acknowledges; the client discards
// its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.LogoutResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me handles GET /api/me. Requires the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	writeJSON(w, http.StatusOK, dto.MeResponse{User: claims})
}

// handleAuthError maps service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "Invalid input", vErr.Fields)
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "User with this email already exists", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
	default:
		h.logger.Error("auth request failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Something went wrong", nil)
	}
}
