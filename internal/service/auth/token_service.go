package auth

import (
	"context"
	"time"
)

// TokenService issues and verifies bearer tokens that identify a user.
type TokenService interface {
	// GenerateToken creates a signed token whose subject is userID.
	// Returns ErrInvalidUserID for ids <= 0.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken verifies the token and extracts its claims.
	// Every failure wraps ErrInvalidToken; use errors.Is to tell the
	// specific cause (ErrExpiredToken, ErrInvalidSignature, ...).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the decoded subject.
	UserID int64

	Issuer    string
	Subject   string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
