// Package entity contains the core business objects of the project.
package entity

// ProviderType represents an authentication provider.
type ProviderType string

const (
	// ProviderTypePassword indicates a local username/password credential.
	ProviderTypePassword ProviderType = "password"
	// ProviderTypeGoogle indicates a federated Google account.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeGitHub indicates a federated GitHub account.
	ProviderTypeGitHub ProviderType = "github"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// IsFederated reports whether the provider is an external identity provider.
func (p ProviderType) IsFederated() bool {
	switch p {
	case ProviderTypeGoogle, ProviderTypeGitHub:
		return true
	default:
		return false
	}
}

// IsValid checks if the ProviderType is a valid value.
func (p ProviderType) IsValid() bool {
	return p == ProviderTypePassword || p.IsFederated()
}
