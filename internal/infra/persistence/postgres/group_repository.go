package postgres

import (
	"context"

	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/domain/repository"
	"sikre/internal/errors"
	"sikre/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// groupRepository implements repository.GroupRepository using GORM.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance.
func NewGroupRepository(db *gorm.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func toGroupDomain(m *model.GroupModel) *entity.Group {
	group := &entity.Group{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	for _, u := range m.Members {
		group.Members = append(group.Members, *toUserDomain(u))
	}

	return group
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var m model.GroupModel
	err := r.db.WithContext(ctx).
		Preload("Members").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find group by id")
	}

	return toGroupDomain(&m), nil
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*entity.Group, error) {
	var m model.GroupModel
	err := r.db.WithContext(ctx).
		Preload("Members").
		First(&m, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find group by name")
	}

	return toGroupDomain(&m), nil
}

func (r *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	m := &model.GroupModel{
		ID:        group.ID,
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("group name already taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create group")
	}

	group.ID = m.ID
	group.CreatedAt = m.CreatedAt

	return nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("INSERT INTO group_members (group_model_id, user_model_id) VALUES (?, ?) ON CONFLICT DO NOTHING", groupID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to add group member")
	}

	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM group_members WHERE group_model_id = ? AND user_model_id = ?", groupID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove group member")
	}

	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*entity.User, error) {
	var models []*model.UserModel
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Joins("JOIN group_members ON group_members.user_model_id = users.id").
		Where("group_members.group_model_id = ?", groupID).
		Order("users.username ASC").
		Find(&models).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list group members")
	}

	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users, nil
}
