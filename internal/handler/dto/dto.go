// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/service"
)

// ErrorResponse represents an API error. Details carries field-level
// validation messages when present.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// GenerateRequest represents the request body for post generation.
type GenerateRequest struct {
	ProductDescription string `json:"productDescription"`
	Language           string `json:"language"`
	Tone               string `json:"tone"`
}

// GenerateResponse represents a generated post.
// ImageURL is null when the image could not be produced.
type GenerateResponse struct {
	Captions []model.Caption `json:"captions"`
	ImageURL *string         `json:"imageUrl"`
}

// ToGenerateResponse converts a generation result to its API shape.
func ToGenerateResponse(result *model.GenerationResult) *GenerateResponse {
	resp := &GenerateResponse{Captions: result.Captions}
	if resp.Captions == nil {
		resp.Captions = []model.Caption{}
	}
	if result.ImageURL != "" {
		url := result.ImageURL
		resp.ImageURL = &url
	}
	return resp
}

// OptionsResponse lists the supported generation enums for form rendering.
type OptionsResponse struct {
	Languages []model.Language `json:"languages"`
	Tones     []model.Tone     `json:"tones"`
}

// SignupRequest represents the request body for account creation.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a successful signup or login.
type AuthResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// ToAuthResponse converts a service auth result to its API shape.
func ToAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User,
	}
}

// MeResponse represents the identity of the bearer token.
type MeResponse struct {
	User model.TokenClaims `json:"user"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BusinessListResponse wraps directory listings.
type BusinessListResponse struct {
	Businesses []model.Business `json:"businesses"`
}

// NearbyBusinessListResponse wraps distance-annotated listings.
type NearbyBusinessListResponse struct {
	Businesses []service.BusinessWithDistance `json:"businesses"`
}

// SuggestionResponse wraps a date-aware post suggestion.
type SuggestionResponse struct {
	Suggestion string `json:"suggestion"`
}
