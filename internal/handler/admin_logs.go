package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// AdminLogHandler exposes the read-only system log view. Logs are
// append-only; there is no mutation surface here at all.
type AdminLogHandler struct {
	Logs *repository.LogRepo
}

func NewAdminLogHandler(logs *repository.LogRepo) *AdminLogHandler {
	return &AdminLogHandler{Logs: logs}
}

var logTypes = map[string]bool{
	model.LogInfo: true, model.LogWarning: true,
	model.LogError: true, model.LogSecurity: true,
}

// List handles GET /v1/admin/logs?type=&page=.
func (h *AdminLogHandler) List(c echo.Context) error {
	logType := strings.TrimSpace(c.QueryParam("type"))
	if logType != "" && !logTypes[logType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type filter"})
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Logs.List(ctx, logType, page)
	if err != nil {
		return dbError(c, "list system logs", err)
	}
	return listResponse(c, items, page, 50, total)
}
