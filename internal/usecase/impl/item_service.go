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

// itemService implements the ItemUsecase interface. Every operation on an
// item or service entry verifies the actor's principal membership first;
// non-principals get a forbidden error regardless of what they asked for.
type itemService struct {
	txManager    repository.TransactionManager
	itemRepo     repository.ItemRepository
	serviceRepo  repository.ServiceRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	logger       *slog.Logger
}

// ItemServiceParams holds dependencies for itemService, injected by Fx.
type ItemServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ItemRepo     repository.ItemRepository
	ServiceRepo  repository.ServiceRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Logger       *slog.Logger
}

// NewItemService is the constructor for itemService.
func NewItemService(params ItemServiceParams) usecase.ItemUsecase {
	return &itemService{
		txManager:    params.TxManager,
		itemRepo:     params.ItemRepo,
		serviceRepo:  params.ServiceRepo,
		categoryRepo: params.CategoryRepo,
		userRepo:     params.UserRepo,
		logger:       params.Logger,
	}
}

func (srv *itemService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireItemPrincipal is the single access check for items: actor must be in
// the item's allowed-principals set.
func (srv *itemService) requireItemPrincipal(ctx context.Context, itemID, actorID uuid.UUID) error {
	allowed, err := srv.itemRepo.IsPrincipalAllowed(ctx, itemID, actorID)
	if err != nil {
		return errors.Wrap(err, "failed to check item access")
	}
	if !allowed {
		srv.log(ctx).Warn("Item access denied", slog.Any("itemID", itemID), slog.Any("actorID", actorID))

		return domainerrors.ErrForbidden.WrapMessage("not a principal of this item")
	}

	return nil
}

func (srv *itemService) ListItems(ctx context.Context, actorID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Item, error) {
	items, err := srv.itemRepo.ListAllowedByUser(ctx, actorID, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}

	return items, nil
}

func (srv *itemService) GetItem(ctx context.Context, actorID, itemID uuid.UUID) (*entity.Item, error) {
	if err := srv.requireItemPrincipal(ctx, itemID, actorID); err != nil {
		return nil, err
	}

	item, err := srv.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("item not found")
		}

		return nil, errors.Wrap(err, "failed to load item")
	}

	return item, nil
}

// CreateItem creates the item and grants the creator principal membership in
// one transaction. An item is never observable without at least one
// principal.
func (srv *itemService) CreateItem(ctx context.Context, actorID uuid.UUID, input *usecase.CreateItemInput) (*entity.Item, error) {
	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, domainerrors.ErrNotFound.WrapMessage("category not found")
			}

			return nil, errors.Wrap(err, "failed to load category")
		}
	}

	item := &entity.Item{
		Name:        input.Name,
		Description: input.Description,
		Tags:        input.Tags,
		CategoryID:  input.CategoryID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		itemRepo := repoFactory.ItemRepo()

		if err := itemRepo.Create(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create item")
		}

		return itemRepo.GrantPrincipal(ctx, item.ID, actorID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create item", slog.Any("actorID", actorID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute item creation transaction")
	}

	srv.log(ctx).Debug("Item created", slog.Any("itemID", item.ID), slog.Any("actorID", actorID))

	return item, nil
}

func (srv *itemService) UpdateItem(ctx context.Context, actorID uuid.UUID, input *usecase.UpdateItemInput) (*entity.Item, error) {
	if err := srv.requireItemPrincipal(ctx, input.ID, actorID); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, domainerrors.ErrNotFound.WrapMessage("category not found")
			}

			return nil, errors.Wrap(err, "failed to load category")
		}
	}

	item := &entity.Item{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Tags:        input.Tags,
		CategoryID:  input.CategoryID,
	}
	if err := srv.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("item not found")
		}

		return nil, errors.Wrap(err, "failed to update item")
	}

	return srv.itemRepo.FindByID(ctx, input.ID)
}

func (srv *itemService) DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error {
	if err := srv.requireItemPrincipal(ctx, itemID, actorID); err != nil {
		return err
	}

	if err := srv.itemRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("item not found")
		}

		return errors.Wrap(err, "failed to delete item")
	}

	srv.log(ctx).Info("Item deleted", slog.Any("itemID", itemID), slog.Any("actorID", actorID))

	return nil
}

// ShareItem grants another user principal membership. Only an existing
// principal may share, and the grantee must exist.
func (srv *itemService) ShareItem(ctx context.Context, actorID uuid.UUID, input *usecase.ShareInput) error {
	if err := srv.requireItemPrincipal(ctx, input.ItemID, actorID); err != nil {
		return err
	}

	if _, err := srv.userRepo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("grantee not found")
		}

		return errors.Wrap(err, "failed to load grantee")
	}

	if err := srv.itemRepo.GrantPrincipal(ctx, input.ItemID, input.UserID); err != nil {
		return errors.Wrap(err, "failed to grant item access")
	}

	srv.log(ctx).Info("Item shared", slog.Any("itemID", input.ItemID), slog.Any("granteeID", input.UserID), slog.Any("actorID", actorID))

	return nil
}

// RevokeItemShare removes a user's principal membership. The change takes
// effect on the target's next access check.
func (srv *itemService) RevokeItemShare(ctx context.Context, actorID uuid.UUID, input *usecase.ShareInput) error {
	if err := srv.requireItemPrincipal(ctx, input.ItemID, actorID); err != nil {
		return err
	}

	if err := srv.itemRepo.RevokePrincipal(ctx, input.ItemID, input.UserID); err != nil {
		return errors.Wrap(err, "failed to revoke item access")
	}

	srv.log(ctx).Info("Item share revoked", slog.Any("itemID", input.ItemID), slog.Any("targetID", input.UserID), slog.Any("actorID", actorID))

	return nil
}

func (srv *itemService) ListServices(ctx context.Context, actorID, itemID uuid.UUID) ([]*entity.Service, error) {
	if err := srv.requireItemPrincipal(ctx, itemID, actorID); err != nil {
		return nil, err
	}

	services, err := srv.serviceRepo.ListAllowedByItem(ctx, itemID, actorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list services")
	}

	return services, nil
}

func (srv *itemService) CreateService(ctx context.Context, actorID uuid.UUID, input *usecase.CreateServiceInput) (*entity.Service, error) {
	if err := srv.requireItemPrincipal(ctx, input.ItemID, actorID); err != nil {
		return nil, err
	}

	svc := &entity.Service{
		ItemID:   input.ItemID,
		Name:     input.Name,
		URL:      input.URL,
		Username: input.Username,
		Secret:   input.Secret,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		serviceRepo := repoFactory.ServiceRepo()

		if err := serviceRepo.Create(ctx, svc); err != nil {
			return errors.Wrap(err, "failed to create service")
		}

		return serviceRepo.GrantPrincipal(ctx, svc.ID, actorID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create service", slog.Any("itemID", input.ItemID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute service creation transaction")
	}

	srv.log(ctx).Debug("Service created", slog.Any("serviceID", svc.ID), slog.Any("itemID", input.ItemID))

	return svc, nil
}

// requireServicePrincipal checks the service entry's own principal set.
func (srv *itemService) requireServicePrincipal(ctx context.Context, serviceID, actorID uuid.UUID) error {
	allowed, err := srv.serviceRepo.IsPrincipalAllowed(ctx, serviceID, actorID)
	if err != nil {
		return errors.Wrap(err, "failed to check service access")
	}
	if !allowed {
		srv.log(ctx).Warn("Service access denied", slog.Any("serviceID", serviceID), slog.Any("actorID", actorID))

		return domainerrors.ErrForbidden.WrapMessage("not a principal of this service")
	}

	return nil
}

func (srv *itemService) GetService(ctx context.Context, actorID, serviceID uuid.UUID) (*entity.Service, error) {
	if err := srv.requireServicePrincipal(ctx, serviceID, actorID); err != nil {
		return nil, err
	}

	svc, err := srv.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("service not found")
		}

		return nil, errors.Wrap(err, "failed to load service")
	}

	return svc, nil
}

func (srv *itemService) UpdateService(ctx context.Context, actorID uuid.UUID, input *usecase.UpdateServiceInput) (*entity.Service, error) {
	if err := srv.requireServicePrincipal(ctx, input.ID, actorID); err != nil {
		return nil, err
	}

	svc := &entity.Service{
		ID:       input.ID,
		Name:     input.Name,
		URL:      input.URL,
		Username: input.Username,
		Secret:   input.Secret,
	}
	if err := srv.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("service not found")
		}

		return nil, errors.Wrap(err, "failed to update service")
	}

	return srv.serviceRepo.FindByID(ctx, input.ID)
}

func (srv *itemService) DeleteService(ctx context.Context, actorID, serviceID uuid.UUID) error {
	if err := srv.requireServicePrincipal(ctx, serviceID, actorID); err != nil {
		return err
	}

	if err := srv.serviceRepo.Delete(ctx, serviceID); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("service not found")
		}

		return errors.Wrap(err, "failed to delete service")
	}

	srv.log(ctx).Info("Service deleted", slog.Any("serviceID", serviceID), slog.Any("actorID", actorID))

	return nil
}

func (srv *itemService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *itemService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	category := &entity.Category{Name: name}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	return category, nil
}
