package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// AdminContactHandler lets admins review and answer contact messages.
type AdminContactHandler struct {
	Contacts *repository.ContactRepo
	Logs     *repository.LogRepo
}

func NewAdminContactHandler(contacts *repository.ContactRepo, logs *repository.LogRepo) *AdminContactHandler {
	return &AdminContactHandler{Contacts: contacts, Logs: logs}
}

// List handles GET /v1/admin/contact-messages?status=&page=.
func (h *AdminContactHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && status != model.ContactPending && status != model.ContactAnswered {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Contacts.List(ctx, status, page)
	if err != nil {
		return dbError(c, "list contact messages", err)
	}
	return listResponse(c, items, page, 20, total)
}

// Respond handles POST /v1/admin/contact-messages/:id/respond with field
// response. Answering moves the message to answered and records the
// responder; an already answered message cannot be answered again.
func (h *AdminContactHandler) Respond(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	values := formValues(c, "response")
	rules := map[string][]form.Rule{
		"response": {form.Required("Response"), form.MaxLength("Response", 5000)},
	}
	if errs := form.Validate(values, rules); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Contacts.Respond(ctx, id, adminID, strings.TrimSpace(values["response"]))
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found or already answered"})
	}
	if err != nil {
		return dbError(c, "respond to contact message", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &adminID, fmt.Sprintf("contact message %d answered", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Response sent"})
}
