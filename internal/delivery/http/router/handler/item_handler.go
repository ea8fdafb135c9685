package handler

import (
	"log/slog"
	"net/http"

	"sikre/internal/delivery/http/middleware"
	"sikre/internal/delivery/http/response"
	"sikre/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ItemHandler holds dependencies for item and category handlers.
type ItemHandler struct {
	uc     usecase.ItemUsecase
	logger *slog.Logger
}

// NewItemHandler is the constructor for ItemHandler, injected by Fx.
func NewItemHandler(uc usecase.ItemUsecase, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListItems lists the items the caller can access, optionally filtered by
// the 'category' query parameter.
func (h *ItemHandler) ListItems(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var categoryID *uuid.UUID
	if raw := c.QueryParam("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid category id")
		}
		categoryID = &id
	}

	items, err := h.uc.ListItems(c.Request().Context(), user.ID, categoryID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "")
}

// GetItem returns a single item.
func (h *ItemHandler) GetItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	item, err := h.uc.GetItem(c.Request().Context(), user.ID, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "")
}

// CreateItem creates an item owned by the caller.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.CreateItemInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.CreateItem(c.Request().Context(), user.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Item created successfully")
}

// UpdateItem modifies an item.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	var input *usecase.UpdateItemInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item input")
	}
	input.ID = itemID
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), user.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Item updated successfully")
}

// DeleteItem removes an item and its grants.
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	if err := h.uc.DeleteItem(c.Request().Context(), user.ID, itemID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item deleted successfully")
}

// ShareItem grants another user access to an item.
func (h *ItemHandler) ShareItem(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	var input *usecase.ShareInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid share input")
	}
	input.ItemID = itemID
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ShareItem(c.Request().Context(), user.ID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item shared successfully")
}

// RevokeItemShare removes a user's access to an item.
func (h *ItemHandler) RevokeItemShare(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	input := &usecase.ShareInput{ItemID: itemID, UserID: targetID}
	if err := h.uc.RevokeItemShare(c.Request().Context(), user.ID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item share revoked successfully")
}

// ListCategories lists all item categories.
func (h *ItemHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

// CreateCategory creates a category.
func (h *ItemHandler) CreateCategory(c echo.Context) error {
	var input struct {
		Name string `json:"name" validate:"required,max=255"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), input.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category, "Category created successfully")
}
