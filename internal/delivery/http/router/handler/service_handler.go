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

// ServiceHandler holds dependencies for service-entry handlers.
type ServiceHandler struct {
	uc     usecase.ItemUsecase
	logger *slog.Logger
}

// NewServiceHandler is the constructor for ServiceHandler, injected by Fx.
func NewServiceHandler(uc usecase.ItemUsecase, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListServices lists the service entries under an item the caller can access.
func (h *ServiceHandler) ListServices(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	services, err := h.uc.ListServices(c.Request().Context(), user.ID, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, services, "")
}

// CreateService creates a service entry under an item.
func (h *ServiceHandler) CreateService(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid item id")
	}

	var input *usecase.CreateServiceInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid service input")
	}
	input.ItemID = itemID
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	svc, err := h.uc.CreateService(c.Request().Context(), user.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, svc, "Service created successfully")
}

// GetService returns a single service entry.
func (h *ServiceHandler) GetService(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service id")
	}

	svc, err := h.uc.GetService(c.Request().Context(), user.ID, serviceID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, svc, "")
}

// UpdateService modifies a service entry.
func (h *ServiceHandler) UpdateService(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service id")
	}

	var input *usecase.UpdateServiceInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid service input")
	}
	input.ID = serviceID
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	svc, err := h.uc.UpdateService(c.Request().Context(), user.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, svc, "Service updated successfully")
}

// DeleteService removes a service entry.
func (h *ServiceHandler) DeleteService(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service id")
	}

	if err := h.uc.DeleteService(c.Request().Context(), user.ID, serviceID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Service deleted successfully")
}
