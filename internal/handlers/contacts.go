package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rolodexd/rolodexd/internal/contacts"
	"github.com/rolodexd/rolodexd/internal/model"
)

// ContactsHandler exposes the contact service over HTTP.
type ContactsHandler struct {
	service *contacts.Service
	logger  *slog.Logger
}

// NewContactsHandler creates a contacts handler.
func NewContactsHandler(log *slog.Logger, service *contacts.Service) *ContactsHandler {
	return &ContactsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "contacts")),
	}
}

// Register mounts the contact routes on the Echo instance.
func (h *ContactsHandler) Register(e *echo.Echo) {
	group := e.Group("/contacts")
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", h.Create)
	group.PATCH("", h.UpdateBatch)
	group.PATCH("/:id", h.Update)
	group.DELETE("", h.Delete)
	group.DELETE("/:id", h.DeleteOne)
	e.GET("/partitions", h.Partitions)
}

// List returns all contacts carrying the requested properties.
func (h *ContactsHandler) List(c echo.Context) error {
	props, err := parseProperties(c.QueryParam("properties"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	items, err := h.service.FetchAllContacts(c.Request().Context(), props, strings.TrimSpace(c.QueryParam("account")))
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []model.Contact{}
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get returns one contact by id.
func (h *ContactsHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact id is required")
	}
	props, err := parseProperties(c.QueryParam("properties"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	item, err := h.service.FetchContact(c.Request().Context(), id, props, strings.TrimSpace(c.QueryParam("account")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

type createContactRequest struct {
	Contact model.Contact    `json:"contact"`
	Account *model.Partition `json:"account,omitempty"`
}

// Create saves a new contact, optionally into an explicit account partition.
func (h *ContactsHandler) Create(c echo.Context) error {
	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.service.CreateContact(c.Request().Context(), req.Contact, req.Account)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update reconciles one contact against its stored state.
func (h *ContactsHandler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact id is required")
	}
	var contact model.Contact
	if err := c.Bind(&contact); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	contact.ID = id
	item, err := h.service.UpdateContact(c.Request().Context(), contact)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

type updateBatchRequest struct {
	Contacts []model.Contact `json:"contacts"`
}

// UpdateBatch reconciles several contacts sharing one property selection.
func (h *ContactsHandler) UpdateBatch(c echo.Context) error {
	var req updateBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.service.UpdateContacts(c.Request().Context(), req.Contacts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

type deleteContactsRequest struct {
	IDs []string `json:"ids"`
}

// Delete removes many contacts by id.
func (h *ContactsHandler) Delete(c echo.Context) error {
	var req deleteContactsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one contact id is required")
	}
	if err := h.service.DeleteContacts(c.Request().Context(), req.IDs); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOne removes a single contact by id.
func (h *ContactsHandler) DeleteOne(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact id is required")
	}
	if err := h.service.DeleteContacts(c.Request().Context(), []string{id}); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Partitions lists the storage partitions available for writes.
func (h *ContactsHandler) Partitions(c echo.Context) error {
	items, err := h.service.Partitions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []model.Partition{}
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// parseProperties parses a comma separated property list; empty means all.
func parseProperties(raw string) (model.PropertySet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.NewPropertySet(model.AllKinds()...), nil
	}
	var props model.PropertySet
	for _, part := range strings.Split(raw, ",") {
		kind, err := model.ParseKind(part)
		if err != nil {
			return model.PropertySet{}, err
		}
		props.Add(kind)
	}
	return props, nil
}
