package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-book/internal/middleware"
	"github.com/iliyamo/contact-book/internal/model"
	"github.com/iliyamo/contact-book/internal/service"
)

// ContactService is the owner-scoped contact API used by ContactHandler.
type ContactService interface {
	Create(ctx context.Context, id service.Identity, in service.ContactInput) (model.Contact, error)
	List(ctx context.Context, id service.Identity) ([]model.Contact, error)
	Update(ctx context.Context, id service.Identity, contactID uint64, in service.ContactInput) (model.Contact, error)
	Delete(ctx context.Context, id service.Identity, contactID uint64) error
}

// ContactHandler serves /contacts. Every method takes the identity
// resolved by middleware.RequireIdentity.
type ContactHandler struct {
	svc     ContactService
	timeout time.Duration
	log     *slog.Logger
}

func NewContactHandler(svc ContactService, timeout time.Duration, log *slog.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, timeout: timeout, log: log}
}

// contactDTO is the public shape of a contact; the owner is implied.
type contactDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func toDTO(m model.Contact) contactDTO {
	return contactDTO{ID: m.ID, Name: m.Name, Phone: m.Phone}
}

type contactResp struct {
	Message string     `json:"message"`
	Contact contactDTO `json:"contact"`
}

type contactListResp struct {
	Contacts []contactDTO `json:"contacts"`
}

// List handles GET /contacts.
func (h *ContactHandler) List(c echo.Context, id service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.svc.List(ctx, id)
	if err != nil {
		return h.fail(c, "list contacts", err)
	}
	out := make([]contactDTO, 0, len(items))
	for _, m := range items {
		out = append(out, toDTO(m))
	}
	return ok(c, http.StatusOK, contactListResp{Contacts: out})
}

// Create handles POST /contacts.
func (h *ContactHandler) Create(c echo.Context, id service.Identity) error {
	in, problems, err := bindFields(c, nameField, phoneField)
	if err != nil {
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}
	if len(problems) > 0 {
		return failValidation(c, problems)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.svc.Create(ctx, id, service.ContactInput{Name: in["name"], Phone: in["phone"]})
	if err != nil {
		return h.fail(c, "create contact", err)
	}
	return ok(c, http.StatusCreated, contactResp{Message: "contact created", Contact: toDTO(m)})
}

// Update handles PUT /contacts/:id.
func (h *ContactHandler) Update(c echo.Context, id service.Identity) error {
	contactID, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusNotFound, msgContactNotFound)
	}
	in, problems, err := bindFields(c, nameField, phoneField)
	if err != nil {
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}
	if len(problems) > 0 {
		return failValidation(c, problems)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	m, err := h.svc.Update(ctx, id, contactID, service.ContactInput{Name: in["name"], Phone: in["phone"]})
	if err != nil {
		return h.fail(c, "update contact", err)
	}
	return ok(c, http.StatusOK, contactResp{Message: "contact updated", Contact: toDTO(m)})
}

// Delete handles DELETE /contacts/:id.
func (h *ContactHandler) Delete(c echo.Context, id service.Identity) error {
	contactID, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusNotFound, msgContactNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id, contactID); err != nil {
		return h.fail(c, "delete contact", err)
	}
	return ok(c, http.StatusOK, messageResp{Message: "contact deleted"})
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer cannot name a contact.
func parseID(c echo.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func (h *ContactHandler) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		return fail(c, http.StatusNotFound, msgContactNotFound)
	case service.IsUnauthenticated(err):
		return middleware.Unauthorized(c, middleware.MsgTokenInvalid)
	}
	h.log.ErrorContext(c.Request().Context(), op+" failed", "err", err)
	return fail(c, http.StatusInternalServerError, msgInternal)
}
