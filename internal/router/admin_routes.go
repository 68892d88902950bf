package router

import (
	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/handler"
	"github.com/agrodesk/farm-manager/internal/middleware"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// RegisterAdmin registers the admin surface under /v1/admin. The session
// guard runs first, then the admin gate.
func RegisterAdmin(e *echo.Echo, jwtSecret string, users *repository.UserRepo,
	adminUsers *handler.AdminUserHandler, contact *handler.AdminContactHandler,
	settings *handler.AdminSettingHandler, logs *handler.AdminLogHandler,
	reports *handler.AdminReportHandler) {

	g := e.Group("/v1/admin",
		middleware.SessionAuth(jwtSecret, users),
		middleware.RequireAdmin(),
	)

	g.GET("/users", adminUsers.List)
	g.GET("/roles", adminUsers.Roles)
	g.POST("/users/:id/role", adminUsers.ChangeRole)
	g.POST("/users/:id/status", adminUsers.ChangeStatus)

	g.GET("/contact-messages", contact.List)
	g.POST("/contact-messages/:id/respond", contact.Respond)

	g.GET("/settings", settings.List)
	g.POST("/settings", settings.Update)

	g.GET("/logs", logs.List)
	g.GET("/reports", reports.Dashboard)
}
