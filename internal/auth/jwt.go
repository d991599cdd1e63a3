// Package auth validates Supabase-issued access tokens.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Predefined token errors.
var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("access token has expired")
)

// DefaultAudience is the audience claim Supabase sets on user tokens.
const DefaultAudience = "authenticated"

// Claims are the token claims this service relies on. Supabase signs user
// tokens with the project JWT secret (HS256) and puts the user ID in sub.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the Postgres role the token carries (e.g. "authenticated").
	Role string `json:"role"`

	// Email is the user's email address.
	Email string `json:"email"`
}

// VerifierConfig holds configuration for the token verifier.
type VerifierConfig struct {
	// JWTSecret is the Supabase project JWT secret (required).
	JWTSecret string

	// Audience is the expected audience claim.
	// Default: "authenticated".
	Audience string
}

// Verifier validates access tokens.
type Verifier struct {
	secret   []byte
	audience string
}

// NewVerifier creates a new token verifier.
func NewVerifier(cfg VerifierConfig) *Verifier {
	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}

	return &Verifier{
		secret:   []byte(cfg.JWTSecret),
		audience: audience,
	}
}

// ValidateAccessToken validates a bearer token and returns the user ID.
func (v *Verifier) ValidateAccessToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithAudience(v.audience),
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrAccessTokenExpired
		}
		return "", ErrInvalidAccessToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidAccessToken
	}

	return claims.Subject, nil
}
