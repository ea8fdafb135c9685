package entity

import (
	"time"

	"github.com/google/uuid"
)

// Authentication represents a single method of logging in (a credential).
// A local username/password is one record; a linked Google or GitHub account
// is another. The (Provider, ProviderUserID) pair is unique service-wide.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The authentication provider, e.g., "password", "google", "github".
	ProviderUserID string       // The user's stable subject id from the provider; the username for local accounts.
	PasswordHash   string       // bcrypt hash, only set when Provider is "password".
	CreatedAt      time.Time    // Timestamp of when this authentication method was linked to the account.
}

// ExternalIdentity is the ephemeral claim produced by one federated login
// attempt. It is consumed once to resolve or create a User and never persisted
// as-is.
type ExternalIdentity struct {
	Provider  ProviderType // Which provider vouched for this identity.
	SubjectID string       // The provider's stable subject identifier. Empty means the identity cannot be established.
	Name      string       // Display name, if the provider offered one.
	Email     string       // Email address, if the provider offered one.
}
