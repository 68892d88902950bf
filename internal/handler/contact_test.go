package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactCreateValidationFailure(t *testing.T) {
	h := NewContactHandler(nil) // validation fails before any repository access

	form := url.Values{
		"name":    {"Jo"},
		"email":   {"not-an-email"},
		"message": {"too short"},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/contact", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
		Values map[string]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Every broken field reports at once and the submitted values echo back.
	assert.Equal(t, "Email must be a valid email address", body.Errors["email"])
	assert.Equal(t, "Subject is required", body.Errors["subject"])
	assert.Equal(t, "Message must be at least 10 characters", body.Errors["message"])
	assert.NotContains(t, body.Errors, "name")
	assert.Equal(t, "not-an-email", body.Values["email"])
}
