package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/model"
)

// RequireAdmin aborts with 403 unless SessionAuth stored the admin role in
// the context. It assumes SessionAuth ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
