package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/config"
	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/middleware"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
	"github.com/agrodesk/farm-manager/internal/utils"
)

// AuthHandler bundles dependencies for the register/login/logout endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Logs  *repository.LogRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, logs *repository.LogRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Logs: logs}
}

var registerRules = func(password string) map[string][]form.Rule {
	return map[string][]form.Rule{
		"username": {form.Required("Username"), form.MinLength("Username", 3), form.MaxLength("Username", 64)},
		"email":    {form.Required("Email"), form.Email("Email")},
		"name":     {form.Required("Name"), form.MaxLength("Name", 128)},
		"password": {form.Required("Password"), form.MinLength("Password", 8)},
		"password_confirm": {form.Required("Password confirmation"),
			form.Match(password, "Passwords do not match")},
	}
}

// Register creates an account with the default "user" role and signs the
// caller in.
func (h *AuthHandler) Register(c echo.Context) error {
	values := formValues(c, "username", "email", "name", "password", "password_confirm")
	if errs := form.Validate(values, registerRules(strings.TrimSpace(values["password"]))); !errs.Ok() {
		// Never echo passwords back on a failed submission.
		delete(values, "password")
		delete(values, "password_confirm")
		return validationFailed(c, errs, values)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, values["username"], values["email"],
		strings.TrimSpace(values["name"]), values["password"], h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return validationFailed(c, form.Errors{"email": "Email already registered"}, nil)
		case repository.ErrUsernameExists:
			return validationFailed(c, form.Errors{"username": "Username already taken"}, nil)
		}
		return dbError(c, "register", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, "account registered")

	if err := h.issueSession(c, uid, "user"); err != nil {
		return dbError(c, "issue session", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created",
		"user":    echo.Map{"id": uid, "username": values["username"]},
	})
}

// Login verifies credentials and sets the session cookie. Blocked accounts
// are denied here as well as by the session guard, and every failure path
// leaves a security log entry.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return validationFailed(c, form.Errors{"email": "Email and password are required"}, form.Values{"email": email})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		recordLog(c, h.Logs, model.LogSecurity, nil, "login failed for unknown email "+email)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return dbError(c, "login lookup", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		recordLog(c, h.Logs, model.LogSecurity, &u.ID, "login failed: wrong password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if u.Status != model.StatusActive {
		recordLog(c, h.Logs, model.LogSecurity, &u.ID, "login denied: account blocked")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is blocked"})
	}

	if err := h.issueSession(c, u.ID, u.RoleName); err != nil {
		return dbError(c, "issue session", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &u.ID, "login succeeded")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome back",
		"user":    echo.Map{"id": u.ID, "username": u.Username, "name": u.Name, "role": u.RoleName},
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Signed out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return dbError(c, "load profile", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id": u.ID, "username": u.Username, "email": u.Email,
		"name": u.Name, "role": u.RoleName, "status": u.Status,
		"created_at": u.CreatedAt,
	})
}

func (h *AuthHandler) issueSession(c echo.Context, uid uint64, role string) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, uid, role, h.Cfg.SessionTTLMin)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	})
	return nil
}
