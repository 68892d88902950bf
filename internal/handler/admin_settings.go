package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// AdminSettingHandler exposes the system settings key/value store.
// Protected settings are listed but never written by the bulk update, no
// matter what the request contains.
type AdminSettingHandler struct {
	Settings *repository.SettingRepo
	Logs     *repository.LogRepo
}

func NewAdminSettingHandler(settings *repository.SettingRepo, logs *repository.LogRepo) *AdminSettingHandler {
	return &AdminSettingHandler{Settings: settings, Logs: logs}
}

// List handles GET /v1/admin/settings.
func (h *AdminSettingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Settings.List(ctx)
	if err != nil {
		return dbError(c, "list settings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles POST /v1/admin/settings. Every posted field is treated as
// a setting key; unknown and protected keys are skipped and reported back.
func (h *AdminSettingHandler) Update(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	params, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
	}
	values := map[string]string{}
	for key := range params {
		values[key] = c.FormValue(key)
	}
	if len(values) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no settings submitted"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, skipped, err := h.Settings.BulkUpdate(ctx, values)
	if err != nil {
		return dbError(c, "update settings", err)
	}
	sort.Strings(updated)
	sort.Strings(skipped)
	recordLog(c, h.Logs, model.LogInfo, &adminID, "system settings updated")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Settings saved",
		"updated": updated,
		"skipped": skipped,
	})
}
