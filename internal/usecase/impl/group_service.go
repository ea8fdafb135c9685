package impl

import (
	"context"
	"log/slog"

	deliverycontext "sikre/internal/delivery/context"
	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/domain/repository"
	"sikre/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// groupService implements the GroupUsecase interface.
type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// GroupServiceParams holds dependencies for groupService, injected by Fx.
type GroupServiceParams struct {
	fx.In

	GroupRepo repository.GroupRepository
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewGroupService is the constructor for groupService.
func NewGroupService(params GroupServiceParams) usecase.GroupUsecase {
	return &groupService{
		groupRepo: params.GroupRepo,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *groupService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *groupService) CreateGroup(ctx context.Context, input *usecase.CreateGroupInput) (*entity.Group, error) {
	group := &entity.Group{Name: input.Name}
	if err := srv.groupRepo.Create(ctx, group); err != nil {
		return nil, errors.Wrap(err, "failed to create group")
	}

	srv.log(ctx).Info("Group created", slog.Any("groupID", group.ID), slog.String("name", group.Name))

	return group, nil
}

func (srv *groupService) GetGroup(ctx context.Context, groupID uuid.UUID) (*entity.Group, error) {
	group, err := srv.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("group not found")
		}

		return nil, errors.Wrap(err, "failed to load group")
	}

	return group, nil
}

func (srv *groupService) AddMember(ctx context.Context, input *usecase.GroupMemberInput) error {
	if _, err := srv.groupRepo.FindByID(ctx, input.GroupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("group not found")
		}

		return errors.Wrap(err, "failed to load group")
	}

	if _, err := srv.userRepo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("member not found")
		}

		return errors.Wrap(err, "failed to load member")
	}

	if err := srv.groupRepo.AddMember(ctx, input.GroupID, input.UserID); err != nil {
		return errors.Wrap(err, "failed to add group member")
	}

	srv.log(ctx).Info("Group member added", slog.Any("groupID", input.GroupID), slog.Any("userID", input.UserID))

	return nil
}

func (srv *groupService) RemoveMember(ctx context.Context, input *usecase.GroupMemberInput) error {
	if err := srv.groupRepo.RemoveMember(ctx, input.GroupID, input.UserID); err != nil {
		return errors.Wrap(err, "failed to remove group member")
	}

	srv.log(ctx).Info("Group member removed", slog.Any("groupID", input.GroupID), slog.Any("userID", input.UserID))

	return nil
}

func (srv *groupService) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*entity.User, error) {
	if _, err := srv.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("group not found")
		}

		return nil, errors.Wrap(err, "failed to load group")
	}

	members, err := srv.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group members")
	}

	return members, nil
}
