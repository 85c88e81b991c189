package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/postdost/postdost/internal/auth"
	"github.com/postdost/postdost/internal/metrics"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/repository"
)

// Service errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

// AuthService handles signup, login, and token issuance.
type AuthService struct {
	repo    repository.UserRepository
	tokens  *auth.TokenIssuer
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates an AuthService.
func NewAuthService(repo repository.UserRepository, tokens *auth.TokenIssuer, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		logger:  logger.With("component", "service.auth"),
		metrics: recorder,
	}
}

// AuthResult is returned on successful signup or login.
type AuthResult struct {
	User  model.PublicUser
	Token string
}

// SignupInput is the raw signup request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// validateSignup checks the signup fields.
func validateSignup(input SignupInput) error {
	fields := make(map[string]string)

	if len(strings.TrimSpace(input.Name)) < minNameLength {
		fields["name"] = fmt.Sprintf("name must be at least %d characters", minNameLength)
	}
	if !isValidEmail(input.Email) {
		fields["email"] = "please enter a valid email address"
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// isValidEmail performs a light structural check: one "@" with a dotted
// domain. Full RFC 5322 parsing buys nothing here; delivery is the only
// real validation.
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}

// Signup creates a new account and issues a session token.
// Returns ErrEmailExists when the email is already registered
// (case-insensitively) and a ValidationError for malformed input.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if err := validateSignup(input); err != nil {
		s.metrics.IncSignup("invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           generateUserID(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncSignup("duplicate")
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(model.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user_created", slog.String("user_id", user.ID))
	s.metrics.IncSignup("success")

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// LoginInput is the raw login request.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials
// so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"credentials": "email and password are required",
		}}
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin("failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(model.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	s.metrics.IncLogin("success")

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// generateUserID creates a sortable unique identifier for a new user.
func generateUserID() string {
	return ulid.Make().String()
}
