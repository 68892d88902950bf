// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/agrodesk/farm-manager/internal/config"
	"github.com/agrodesk/farm-manager/internal/handler"
	"github.com/agrodesk/farm-manager/internal/middleware"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// RegisterPublic registers the routes that require no session: the health
// check and the public contact form.
func RegisterPublic(e *echo.Echo, contact *handler.ContactHandler) {
	e.GET("/healthz", handler.Health)
	e.POST("/v1/contact", contact.Create)
}

// RegisterAuth registers registration and login (rate limited), plus the
// session-guarded profile and logout endpoints.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users *repository.UserRepo,
	rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1", middleware.SessionAuth(a.Cfg.JWTSecret, users))
	me.GET("/me", a.Me)
}
