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

// authRepository implements repository.AuthRepository using GORM.
type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new authentication repository instance.
func NewAuthRepository(db *gorm.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

func toAuthDomain(m *model.AuthenticationModel) *entity.Authentication {
	return &entity.Authentication{
		ID:             m.ID,
		UserID:         m.UserID,
		Provider:       entity.ProviderType(m.Provider),
		ProviderUserID: m.ProviderUserID,
		PasswordHash:   m.PasswordHash,
		CreatedAt:      m.CreatedAt,
	}
}

func fromAuthDomain(a *entity.Authentication) *model.AuthenticationModel {
	return &model.AuthenticationModel{
		ID:             a.ID,
		UserID:         a.UserID,
		Provider:       a.Provider.String(),
		ProviderUserID: a.ProviderUserID,
		PasswordHash:   a.PasswordHash,
		CreatedAt:      a.CreatedAt,
	}
}

func (r *authRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	m := fromAuthDomain(auth)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("authentication method already linked")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create authentication")
	}

	auth.ID = m.ID
	auth.CreatedAt = m.CreatedAt

	return nil
}

func (r *authRepository) FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	var m model.AuthenticationModel
	err := r.db.WithContext(ctx).
		First(&m, "provider = ? AND provider_user_id = ?", provider.String(), providerUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuthNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find authentication")
	}

	return toAuthDomain(&m), nil
}

func (r *authRepository) ListAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	var models []model.AuthenticationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list authentications")
	}

	auths := make([]*entity.Authentication, 0, len(models))
	for i := range models {
		auths = append(auths, toAuthDomain(&models[i]))
	}

	return auths, nil
}
