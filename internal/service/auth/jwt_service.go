// Package auth verifies the bearer tokens issued by the account platform.
// This API never issues tokens of its own; GenerateToken exists for tests
// and local tooling.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT containing the user's identity and
	// subscription tier. Returns the token string or an error if signing
	// fails.
	GenerateToken(ctx context.Context, userID uuid.UUID, premium bool) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Premium reports whether the user holds an active subscription. Gates
	// the premium booster kind.
	Premium bool `json:"premium,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
