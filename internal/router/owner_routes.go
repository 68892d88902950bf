package router

import (
	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/handler"
	"github.com/agrodesk/farm-manager/internal/middleware"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// RegisterOwner registers the owner-scoped entity CRUD under /v1. Every
// route requires a valid session; ownership is enforced inside the
// repositories, never by the router.
func RegisterOwner(e *echo.Echo, jwtSecret string, users *repository.UserRepo,
	farms *handler.FarmHandler, animals *handler.AnimalHandler,
	employees *handler.EmployeeHandler, records *handler.HealthRecordHandler) {

	g := e.Group("/v1", middleware.SessionAuth(jwtSecret, users))

	// ---- Farms ----
	g.GET("/farms", farms.List)
	g.POST("/farms", farms.Create)
	g.GET("/farms/:id", farms.Get)
	g.POST("/farms/:id", farms.Update)
	g.POST("/farms/:id/delete", farms.Delete)

	// ---- Animals ----
	g.GET("/animals", animals.List)
	g.POST("/animals", animals.Create)
	g.GET("/animals/:id", animals.Get)
	g.POST("/animals/:id", animals.Update)
	g.POST("/animals/:id/delete", animals.Delete)

	// ---- Employees ----
	g.GET("/employees", employees.List)
	g.POST("/employees", employees.Create)
	g.GET("/employees/:id", employees.Get)
	g.POST("/employees/:id", employees.Update)
	g.POST("/employees/:id/delete", employees.Delete)

	// ---- Animal health records ----
	g.GET("/animal-health", records.List)
	g.POST("/animal-health", records.Create)
	g.POST("/animal-health/:id", records.Update)
	g.POST("/animal-health/:id/delete", records.Delete)
}
