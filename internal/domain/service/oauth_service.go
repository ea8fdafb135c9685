package service

import (
	"context"

	"sikre/internal/domain/entity"
)

// ExchangeInput carries the client-supplied half of an authorization-code
// exchange. The server-held client secret never appears here.
type ExchangeInput struct {
	Code        string // One-time authorization code from the provider redirect.
	ClientID    string // OAuth2 client id the code was issued to.
	RedirectURI string // Redirect URI used in the authorization request.
}

// OAuthService defines the interface for one federated identity provider.
// Exchange performs the two outbound calls of the authorization-code flow:
// code-for-access-token, then profile fetch. A failure of either call aborts
// the login attempt; there is no automatic retry.
type OAuthService interface {
	// Exchange trades an authorization code for the provider's identity claim.
	// An identity without a stable subject id is an error, never a claim.
	Exchange(ctx context.Context, input ExchangeInput) (*entity.ExternalIdentity, error)

	// Provider returns the provider this service talks to.
	Provider() entity.ProviderType
}

// OAuthProviders maps provider names to their exchanger implementations.
type OAuthProviders map[entity.ProviderType]OAuthService
