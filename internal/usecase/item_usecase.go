package usecase

import (
	"context"

	"sikre/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateItemInput defines the parameters for creating an item.
type CreateItemInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Tags        string     `json:"tags" validate:"max=255"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

// UpdateItemInput defines the parameters for updating an item.
type UpdateItemInput struct {
	ID          uuid.UUID  `json:"-"`
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Tags        string     `json:"tags" validate:"max=255"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

// ShareInput identifies a grant or revocation of item access.
type ShareInput struct {
	ItemID uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"userId" validate:"required"`
}

// CreateServiceInput defines the parameters for creating a service entry
// under an item.
type CreateServiceInput struct {
	ItemID   uuid.UUID `json:"-"`
	Name     string    `json:"name" validate:"required,max=255"`
	URL      string    `json:"url" validate:"max=500"`
	Username string    `json:"username" validate:"max=255"`
	Secret   string    `json:"secret" validate:"max=4096"`
}

// UpdateServiceInput defines the parameters for updating a service entry.
type UpdateServiceInput struct {
	ID       uuid.UUID `json:"-"`
	Name     string    `json:"name" validate:"required,max=255"`
	URL      string    `json:"url" validate:"max=500"`
	Username string    `json:"username" validate:"max=255"`
	Secret   string    `json:"secret" validate:"max=4096"`
}

// ItemUsecase defines the protected-resource use cases. Every operation takes
// the acting user's id and checks the allowed-principals relation before
// touching the resource; membership is all-or-nothing.
type ItemUsecase interface {
	// ListItems lists the items the actor is a principal of, optionally
	// filtered by category. Items the actor cannot access are simply absent.
	ListItems(ctx context.Context, actorID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Item, error)

	// GetItem returns one item if the actor is a principal of it.
	GetItem(ctx context.Context, actorID, itemID uuid.UUID) (*entity.Item, error)

	// CreateItem creates an item and grants the creator access in the same
	// transaction, so no item exists without at least one principal.
	CreateItem(ctx context.Context, actorID uuid.UUID, input *CreateItemInput) (*entity.Item, error)

	UpdateItem(ctx context.Context, actorID uuid.UUID, input *UpdateItemInput) (*entity.Item, error)
	DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error

	// ShareItem grants another user principal membership on the item.
	ShareItem(ctx context.Context, actorID uuid.UUID, input *ShareInput) error

	// RevokeItemShare removes a user's principal membership; subsequent access
	// checks fail immediately.
	RevokeItemShare(ctx context.Context, actorID uuid.UUID, input *ShareInput) error

	// ListServices lists the service entries under an item that the actor is a
	// principal of.
	ListServices(ctx context.Context, actorID, itemID uuid.UUID) ([]*entity.Service, error)

	// GetService returns one service entry if the actor is a principal of it.
	GetService(ctx context.Context, actorID, serviceID uuid.UUID) (*entity.Service, error)

	// CreateService creates a service entry under an item the actor can access,
	// granting the creator access to the entry in the same transaction.
	CreateService(ctx context.Context, actorID uuid.UUID, input *CreateServiceInput) (*entity.Service, error)

	UpdateService(ctx context.Context, actorID uuid.UUID, input *UpdateServiceInput) (*entity.Service, error)
	DeleteService(ctx context.Context, actorID, serviceID uuid.UUID) error

	// ListCategories lists all categories. Categories carry no secrets and are
	// not access controlled.
	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// CreateCategory creates a category with a unique name.
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
}
