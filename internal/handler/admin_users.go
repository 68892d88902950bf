package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// AdminUserHandler implements the account management surface. Role and
// status changes are guarded against self-targeting: an admin can never
// change their own role or block their own account, even as the only
// admin.
type AdminUserHandler struct {
	Users *repository.UserRepo
	Logs  *repository.LogRepo
}

func NewAdminUserHandler(users *repository.UserRepo, logs *repository.LogRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: users, Logs: logs}
}

type adminUserView struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// List handles GET /v1/admin/users?status=&page=.
func (h *AdminUserHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && status != model.StatusActive && status != model.StatusBlocked {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, status, page)
	if err != nil {
		return dbError(c, "list users", err)
	}
	items := make([]adminUserView, 0, len(users))
	for _, u := range users {
		items = append(items, adminUserView{
			ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name,
			Role: u.RoleName, Status: u.Status,
			CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return listResponse(c, items, page, 20, total)
}

// Roles handles GET /v1/admin/roles, feeding the role-change form.
func (h *AdminUserHandler) Roles(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	roles, err := h.Users.ListRoles(ctx)
	if err != nil {
		return dbError(c, "list roles", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roles})
}

// ChangeRole handles POST /v1/admin/users/:id/role with field role_id.
func (h *AdminUserHandler) ChangeRole(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if targetID == adminID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot change your own role"})
	}
	roleID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("role_id")), 10, 8)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role_id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Users.UpdateRole(ctx, targetID, uint8(roleID)); err {
	case nil:
	case repository.ErrInvalidRole:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role does not exist"})
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		return dbError(c, "change role", err)
	}
	recordLog(c, h.Logs, model.LogSecurity, &adminID,
		fmt.Sprintf("role of user %d changed to role %d", targetID, roleID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Role updated"})
}

// ChangeStatus handles POST /v1/admin/users/:id/status with field status.
func (h *AdminUserHandler) ChangeStatus(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if targetID == adminID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot change your own account status"})
	}
	status := strings.TrimSpace(c.FormValue("status"))
	if status != model.StatusActive && status != model.StatusBlocked {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or blocked"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Users.UpdateStatus(ctx, targetID, status); err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		return dbError(c, "change status", err)
	}
	recordLog(c, h.Logs, model.LogSecurity, &adminID,
		fmt.Sprintf("status of user %d set to %s", targetID, status))
	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated"})
}
