package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodesk/farm-manager/internal/config"
	"github.com/agrodesk/farm-manager/internal/model"
)

func guardContext(role any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxRole, role)
	}
	return c, rec
}

func TestRequireAdminAllowsAdminRole(t *testing.T) {
	called := false
	next := func(c echo.Context) error { called = true; return c.NoContent(http.StatusOK) }

	c, rec := guardContext(model.RoleAdmin)
	require.NoError(t, RequireAdmin()(next)(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	called := false
	next := func(c echo.Context) error { called = true; return nil }

	c, rec := guardContext("user")
	require.NoError(t, RequireAdmin()(next)(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminRejectsMissingRole(t *testing.T) {
	c, rec := guardContext(nil)
	require.NoError(t, RequireAdmin()(func(echo.Context) error { return nil })(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimitDisabledIsPassThrough(t *testing.T) {
	called := false
	mw := RateLimit(config.RateLimitConfig{Enabled: false}, nil)

	c, rec := guardContext(nil)
	require.NoError(t, mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
