package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// ContactHandler accepts messages from the public contact form. No
// authentication is required; messages start in the pending state and are
// answered through the admin surface.
type ContactHandler struct {
	Contacts *repository.ContactRepo
}

func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
	return &ContactHandler{Contacts: contacts}
}

var contactRules = map[string][]form.Rule{
	"name":    {form.Required("Name"), form.MaxLength("Name", 128)},
	"email":   {form.Required("Email"), form.Email("Email")},
	"subject": {form.Required("Subject"), form.MaxLength("Subject", 255)},
	"message": {form.Required("Message"), form.MinLength("Message", 10), form.MaxLength("Message", 5000)},
}

// Create handles POST /v1/contact.
func (h *ContactHandler) Create(c echo.Context) error {
	values := formValues(c, "name", "email", "subject", "message")
	if errs := form.Validate(values, contactRules); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_, err := h.Contacts.Create(ctx, &model.ContactMessage{
		Name:    strings.TrimSpace(values["name"]),
		Email:   strings.ToLower(strings.TrimSpace(values["email"])),
		Subject: strings.TrimSpace(values["subject"]),
		Message: strings.TrimSpace(values["message"]),
	})
	if err != nil {
		return dbError(c, "create contact message", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Thank you, we will get back to you soon"})
}
