package usecase

import (
	"context"

	"sikre/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateGroupInput defines the parameters for creating a group.
type CreateGroupInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// GroupMemberInput identifies a group membership change.
type GroupMemberInput struct {
	GroupID uuid.UUID `json:"-"`
	UserID  uuid.UUID `json:"userId" validate:"required"`
}

// GroupUsecase defines the user-group use cases.
type GroupUsecase interface {
	CreateGroup(ctx context.Context, input *CreateGroupInput) (*entity.Group, error)
	GetGroup(ctx context.Context, groupID uuid.UUID) (*entity.Group, error)
	AddMember(ctx context.Context, input *GroupMemberInput) error
	RemoveMember(ctx context.Context, input *GroupMemberInput) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*entity.User, error)
}
