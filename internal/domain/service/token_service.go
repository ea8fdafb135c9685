package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the session tokens.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and decoding session tokens.
// Tokens are stateless bearer credentials: signed, self-contained, verifiable
// without a server-side lookup table. There is no blacklist; revocation
// happens only through expiry or user deactivation, which is why the validity
// window stays short.
type TokenService interface {
	// Issue creates a signed token whose subject is the user's internal id,
	// valid for the configured window from now.
	Issue(userID uuid.UUID) (string, error)

	// Decode verifies the signature and expiry of a token string and returns
	// its claims. Callers must still confirm the subject resolves to an
	// active user before trusting the token.
	Decode(tokenString string) (*Claims, error)

	// TokenDuration returns the configured validity window.
	TokenDuration() time.Duration
}
