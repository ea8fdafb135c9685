// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"sikre/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for resource persistence.
var (
	// ErrItemNotFound is returned when an item is not found.
	ErrItemNotFound = errors.New("item not found")
	// ErrServiceNotFound is returned when a service entry is not found.
	ErrServiceNotFound = errors.New("service not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
)

// ItemRepository defines the operations for item persistence, including the
// allowed-principals relation the authorization core depends on.
type ItemRepository interface {
	// FindByID retrieves a single item by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)

	// ListAllowedByUser lists items the user is a principal of, optionally
	// filtered by category.
	ListAllowedByUser(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Item, error)

	// Create persists a new item entity to the storage.
	Create(ctx context.Context, item *entity.Item) error

	// Update modifies an existing item entity in the storage.
	Update(ctx context.Context, item *entity.Item) error

	// Delete removes an item and its principal grants.
	Delete(ctx context.Context, id uuid.UUID) error

	// IsPrincipalAllowed reports whether the user is in the item's
	// allowed-principals relation. This is the whole access check.
	IsPrincipalAllowed(ctx context.Context, itemID, userID uuid.UUID) (bool, error)

	// GrantPrincipal adds the user to the item's allowed-principals relation.
	GrantPrincipal(ctx context.Context, itemID, userID uuid.UUID) error

	// RevokePrincipal removes the user from the item's allowed-principals relation.
	RevokePrincipal(ctx context.Context, itemID, userID uuid.UUID) error
}

// ServiceRepository defines the operations for service-entry persistence.
// Service entries carry their own allowed-principals relation with the same
// contract as items.
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// ListAllowedByItem lists the service entries under an item that the user
	// is a principal of.
	ListAllowedByItem(ctx context.Context, itemID, userID uuid.UUID) ([]*entity.Service, error)

	Create(ctx context.Context, svc *entity.Service) error
	Update(ctx context.Context, svc *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error

	IsPrincipalAllowed(ctx context.Context, serviceID, userID uuid.UUID) (bool, error)
	GrantPrincipal(ctx context.Context, serviceID, userID uuid.UUID) error
	RevokePrincipal(ctx context.Context, serviceID, userID uuid.UUID) error
}

// CategoryRepository defines the operations for category persistence.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
}
