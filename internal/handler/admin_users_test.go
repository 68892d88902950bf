package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodesk/farm-manager/internal/middleware"
)

func adminPost(t *testing.T, path, targetID string, form url.Values, adminID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	c.Set(middleware.CtxUserID, adminID)
	return c, rec
}

func TestChangeRoleRejectsSelf(t *testing.T) {
	h := NewAdminUserHandler(nil, nil)

	// The guard fires before any repository access, so nil repos are safe.
	c, rec := adminPost(t, "/v1/admin/users/7/role", "7", url.Values{"role_id": {"1"}}, 7)
	require.NoError(t, h.ChangeRole(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "you cannot change your own role")
}

func TestChangeStatusRejectsSelf(t *testing.T) {
	h := NewAdminUserHandler(nil, nil)

	c, rec := adminPost(t, "/v1/admin/users/7/status", "7", url.Values{"status": {"blocked"}}, 7)
	require.NoError(t, h.ChangeStatus(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "you cannot change your own account status")
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	h := NewAdminUserHandler(nil, nil)

	c, rec := adminPost(t, "/v1/admin/users/8/status", "8", url.Values{"status": {"suspended"}}, 7)
	require.NoError(t, h.ChangeStatus(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status must be active or blocked")
}

func TestChangeRoleRejectsNonNumericRoleID(t *testing.T) {
	h := NewAdminUserHandler(nil, nil)

	c, rec := adminPost(t, "/v1/admin/users/8/role", "8", url.Values{"role_id": {"admin"}}, 7)
	require.NoError(t, h.ChangeRole(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid role_id")
}
