// Package middleware provides the request guards shared by every protected
// route: session authentication, the admin gate, and login rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
	"github.com/agrodesk/farm-manager/internal/utils"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "session"

// Context keys set by SessionAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// SessionAuth validates the session token from the session cookie or the
// Authorization header, loads the account, and rejects blocked users. The
// current user id and role name are stored in the Echo context. Every
// protected route runs this guard before touching the database.
func SessionAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				raw = cookie.Value
			}
			if raw == "" {
				if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					raw = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			uid, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}

			// The account is loaded on every request so a block or role
			// change takes effect immediately, not at token expiry.
			u, err := users.GetByID(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			if u.Status != model.StatusActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account is blocked"})
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxRole, u.RoleName)
			return next(c)
		}
	}
}
