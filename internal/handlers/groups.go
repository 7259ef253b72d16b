package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rolodexd/rolodexd/internal/groups"
	"github.com/rolodexd/rolodexd/internal/model"
)

// GroupsHandler exposes the group service over HTTP.
type GroupsHandler struct {
	service *groups.Service
	logger  *slog.Logger
}

// NewGroupsHandler creates a groups handler.
func NewGroupsHandler(log *slog.Logger, service *groups.Service) *GroupsHandler {
	return &GroupsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "groups")),
	}
}

// Register mounts the group routes on the Echo instance.
func (h *GroupsHandler) Register(e *echo.Echo) {
	group := e.Group("/groups")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/contacts", h.AddContacts)
}

// List returns all groups.
func (h *GroupsHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []model.Group{}
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

type createGroupRequest struct {
	Name    string           `json:"name"`
	Account *model.Partition `json:"account,omitempty"`
}

// Create makes a new group, optionally in an explicit account partition.
func (h *GroupsHandler) Create(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.service.Create(c.Request().Context(), req.Name, req.Account)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

type updateGroupRequest struct {
	Name string `json:"name"`
}

// Update renames a group.
func (h *GroupsHandler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "group id is required")
	}
	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.service.Update(c.Request().Context(), model.Group{ID: id, Name: req.Name})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes a group and its memberships.
func (h *GroupsHandler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "group id is required")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type addContactsRequest struct {
	ContactIDs []string `json:"contactIds"`
}

// AddContacts adds contacts to a group; already present members are kept.
func (h *GroupsHandler) AddContacts(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "group id is required")
	}
	var req addContactsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.ContactIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one contact id is required")
	}
	if err := h.service.AddContacts(c.Request().Context(), id, req.ContactIDs); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
