// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"sikre/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrGroupNotFound is returned when a group is not found.
var ErrGroupNotFound = errors.New("group not found")

// GroupRepository defines the operations for group persistence.
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	FindByName(ctx context.Context, name string) (*entity.Group, error)
	Create(ctx context.Context, group *entity.Group) error

	// AddMember adds a user to the group's membership set.
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error

	// RemoveMember removes a user from the group's membership set.
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	// ListMembers lists the users in the group.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*entity.User, error)
}
