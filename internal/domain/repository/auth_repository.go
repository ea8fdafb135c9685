// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"sikre/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAuthNotFound is returned when an authentication method is not found.
var ErrAuthNotFound = errors.New("authentication method not found")

// AuthRepository defines the standard operations for authentication-related persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new authentication method. The store
	// enforces uniqueness of (provider, providerUserID); a duplicate insert
	// fails with a conflict error, which callers treat as the serialization
	// point for concurrent first logins.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves an authentication method by its provider and provider-specific ID.
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)

	// ListAuthenticationsByUserID lists every authentication method linked to a user.
	ListAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error)
}
