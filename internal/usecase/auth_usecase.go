// Package usecase defines the application's use case interfaces and their
// input/output contracts. Handlers depend on these interfaces, never on the
// implementations.
package usecase

import (
	"context"

	"sikre/internal/domain/entity"
)

// RegisterInput defines the parameters for local account registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput defines the parameters for local username/password login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FederatedLoginInput defines the parameters for an OAuth2 authorization-code
// login. The provider name comes from the URL, the rest from the client.
type FederatedLoginInput struct {
	Provider    string `json:"-" validate:"required"`
	Code        string `json:"code" validate:"required"`
	ClientID    string `json:"clientId" validate:"required"`
	RedirectURI string `json:"redirectUri" validate:"required,uri"`
}

// LoginOutput is the result of any successful authentication flow.
type LoginOutput struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresIn int64        `json:"expiresIn"` // Lifetime in seconds.
	User      *entity.User `json:"user"`
}

// AuthUsecase defines the authentication and identity use cases.
type AuthUsecase interface {
	// Register creates a local account with a password credential and logs it in.
	Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error)

	// Login verifies a username/password pair. All failure modes collapse into
	// one invalid-credentials error so accounts cannot be enumerated.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// FederatedLogin completes an OAuth2 authorization-code flow, provisioning
	// a local user on first login with a given federated identity.
	FederatedLogin(ctx context.Context, input *FederatedLoginInput) (*LoginOutput, error)

	// ResolveToken validates a bearer token and returns the active user it
	// identifies. Every failure mode collapses into one invalid-token error.
	ResolveToken(ctx context.Context, tokenString string) (*entity.User, error)
}
