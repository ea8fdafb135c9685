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

// serviceRepository implements repository.ServiceRepository using GORM.
// Service entries carry the actual secret material, so listing is always
// scoped to the requesting principal.
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository instance.
func NewServiceRepository(db *gorm.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func toServiceDomain(m *model.ServiceModel) *entity.Service {
	svc := &entity.Service{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Name:      m.Name,
		URL:       m.URL,
		Username:  m.Username,
		Secret:    m.Secret,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, u := range m.AllowedUsers {
		svc.AllowedUsers = append(svc.AllowedUsers, *toUserDomain(u))
	}

	return svc
}

func fromServiceDomain(svc *entity.Service) *model.ServiceModel {
	return &model.ServiceModel{
		ID:        svc.ID,
		ItemID:    svc.ItemID,
		Name:      svc.Name,
		URL:       svc.URL,
		Username:  svc.Username,
		Secret:    svc.Secret,
		CreatedAt: svc.CreatedAt,
		UpdatedAt: svc.UpdatedAt,
	}
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var m model.ServiceModel
	err := r.db.WithContext(ctx).
		Preload("AllowedUsers").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find service by id")
	}

	return toServiceDomain(&m), nil
}

func (r *serviceRepository) ListAllowedByItem(ctx context.Context, itemID, userID uuid.UUID) ([]*entity.Service, error) {
	var models []model.ServiceModel
	err := r.db.WithContext(ctx).
		Joins("JOIN service_principals ON service_principals.service_model_id = services.id").
		Where("services.item_id = ?", itemID).
		Where("service_principals.user_model_id = ?", userID).
		Order("services.name ASC").
		Find(&models).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list services for item")
	}

	services := make([]*entity.Service, 0, len(models))
	for i := range models {
		services = append(services, toServiceDomain(&models[i]))
	}

	return services, nil
}

func (r *serviceRepository) Create(ctx context.Context, svc *entity.Service) error {
	m := fromServiceDomain(svc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create service")
	}

	svc.ID = m.ID
	svc.CreatedAt = m.CreatedAt
	svc.UpdatedAt = m.UpdatedAt

	return nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *entity.Service) error {
	result := r.db.WithContext(ctx).
		Model(&model.ServiceModel{}).
		Where("id = ?", svc.ID).
		Updates(map[string]any{
			"name":     svc.Name,
			"url":      svc.URL,
			"username": svc.Username,
			"secret":   svc.Secret,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update service")
	}
	if result.RowsAffected == 0 {
		return repository.ErrServiceNotFound
	}

	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM service_principals WHERE service_model_id = ?", id).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete service grants")
		}

		result := tx.Delete(&model.ServiceModel{}, "id = ?", id)
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete service")
		}
		if result.RowsAffected == 0 {
			return repository.ErrServiceNotFound
		}

		return nil
	})
}

func (r *serviceRepository) IsPrincipalAllowed(ctx context.Context, serviceID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("service_principals").
		Where("service_model_id = ? AND user_model_id = ?", serviceID, userID).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check service principal")
	}

	return count > 0, nil
}

func (r *serviceRepository) GrantPrincipal(ctx context.Context, serviceID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("INSERT INTO service_principals (service_model_id, user_model_id) VALUES (?, ?) ON CONFLICT DO NOTHING", serviceID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to grant service principal")
	}

	return nil
}

func (r *serviceRepository) RevokePrincipal(ctx context.Context, serviceID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM service_principals WHERE service_model_id = ? AND user_model_id = ?", serviceID, userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to revoke service principal")
	}

	return nil
}
