package handler

import (
	"log/slog"
	"net/http"

	"sikre/internal/delivery/http/response"
	"sikre/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GroupHandler holds dependencies for group handlers.
type GroupHandler struct {
	uc     usecase.GroupUsecase
	logger *slog.Logger
}

// NewGroupHandler is the constructor for GroupHandler, injected by Fx.
func NewGroupHandler(uc usecase.GroupUsecase, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateGroup creates a group.
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var input *usecase.CreateGroupInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid group input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	group, err := h.uc.CreateGroup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, group, "Group created successfully")
}

// GetGroup returns a group with its members.
func (h *GroupHandler) GetGroup(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	group, err := h.uc.GetGroup(c.Request().Context(), groupID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, group, "")
}

// AddMember adds a user to a group.
func (h *GroupHandler) AddMember(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	var input *usecase.GroupMemberInput
	if err := c.Bind(&input); err != nil || input == nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid member input")
	}
	input.GroupID = groupID
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.AddMember(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Member added successfully")
}

// RemoveMember removes a user from a group.
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	input := &usecase.GroupMemberInput{GroupID: groupID, UserID: userID}
	if err := h.uc.RemoveMember(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Member removed successfully")
}

// ListMembers lists the members of a group.
func (h *GroupHandler) ListMembers(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	members, err := h.uc.ListMembers(c.Request().Context(), groupID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, members, "")
}
