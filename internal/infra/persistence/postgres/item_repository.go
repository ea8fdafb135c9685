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

// itemRepository implements repository.ItemRepository using GORM. The
// allowed-principals relation lives in the item_principals join table and is
// only touched through the grant/revoke operations or alongside item creation.
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository instance.
func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func toItemDomain(m *model.ItemModel) *entity.Item {
	item := &entity.Item{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Tags:        m.Tags,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, u := range m.AllowedUsers {
		item.AllowedUsers = append(item.AllowedUsers, *toUserDomain(u))
	}

	return item
}

func fromItemDomain(item *entity.Item) *model.ItemModel {
	return &model.ItemModel{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Tags:        item.Tags,
		CategoryID:  item.CategoryID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var m model.ItemModel
	err := r.db.WithContext(ctx).
		Preload("AllowedUsers").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find item by id")
	}

	return toItemDomain(&m), nil
}

func (r *itemRepository) ListAllowedByUser(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Item, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN item_principals ON item_principals.item_model_id = items.id").
		Where("item_principals.user_model_id = ?", userID).
		Order("items.name ASC")
	if categoryID != nil {
		query = query.Where("items.category_id = ?", *categoryID)
	}

	var models []model.ItemModel
	if err := query.Find(&models).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list items for user")
	}

	items := make([]*entity.Item, 0, len(models))
	for i := range models {
		items = append(items, toItemDomain(&models[i]))
	}

	return items, nil
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	m := fromItemDomain(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create item")
	}

	item.ID = m.ID
	item.CreatedAt = m.CreatedAt
	item.UpdatedAt = m.UpdatedAt

	return nil
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	result := r.db.WithContext(ctx).
		Model(&model.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"tags":        item.Tags,
			"category_id": item.CategoryID,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Grants go first so no principal row outlives its item.
		if err := tx.Exec("DELETE FROM item_principals WHERE item_model_id = ?", id).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete item grants")
		}

		result := tx.Delete(&model.ItemModel{}, "id = ?", id)
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete item")
		}
		if result.RowsAffected == 0 {
			return repository.ErrItemNotFound
		}

		return nil
	})
}

func (r *itemRepository) IsPrincipalAllowed(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("item_principals").
		Where("item_model_id = ? AND user_model_id = ?", itemID, userID).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check item principal")
	}

	return count > 0, nil
}

func (r *itemRepository) GrantPrincipal(ctx context.Context, itemID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("INSERT INTO item_principals (item_model_id, user_model_id) VALUES (?, ?) ON CONFLICT DO NOTHING", itemID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to grant item principal")
	}

	return nil
}

func (r *itemRepository) RevokePrincipal(ctx context.Context, itemID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM item_principals WHERE item_model_id = ? AND user_model_id = ?", itemID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to revoke item principal")
	}

	return nil
}
