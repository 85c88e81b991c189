package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postdost/postdost/internal/model"
)

// ErrInvalidToken is returned for any token that fails verification.
// Expired, malformed, and badly signed tokens are deliberately not
// distinguished so callers present a uniform authentication failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the registered JWT claims plus the user identity
// captured at issuance time.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenIssuer signs and verifies session tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer.
// ttl is the validity window for issued tokens (7 days in production).
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token embedding the user's identity claims.
func (t *TokenIssuer) Issue(user model.TokenClaims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: user.UserID,
		Email:  user.Email,
		Name:   user.Name,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify validates the token's signature and expiry and returns the
// embedded claims. Any failure maps to ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return model.TokenClaims{}, ErrInvalidToken
	}

	return model.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
