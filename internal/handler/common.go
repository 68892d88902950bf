// Package handler contains the HTTP controllers. Every mutating handler
// follows the same pipeline: session guard (middleware) -> parse form ->
// validate -> repository call -> view model. Validation failures return
// 400 with the field error map and the submitted values so the form can be
// re-rendered with errors beside the entered data; nothing is persisted on
// a failed submission. Database errors are logged server-side and surfaced
// as a generic message.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/audit"
	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/middleware"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// currentUserID extracts the authenticated user id stored by SessionAuth.
func currentUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("no user in context")
}

// reqCtx derives a bounded context for repository calls.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pageParam reads ?page=N, defaulting to 1.
func pageParam(c echo.Context) int {
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

// idParam parses the :id path segment.
func idParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// formValues collects the named POST fields into a validation map.
func formValues(c echo.Context, names ...string) form.Values {
	v := form.Values{}
	for _, n := range names {
		v[n] = c.FormValue(n)
	}
	return v
}

// validationFailed renders the 400 response for a failed submission.
func validationFailed(c echo.Context, errs form.Errors, values form.Values) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs, "values": values})
}

// dbError logs the real error and returns the generic failure response.
// Raw driver messages are never sent to clients.
func dbError(c echo.Context, op string, err error) error {
	log.Printf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "an unexpected error occurred"})
}

// listResponse is the shared view model for paginated lists.
func listResponse(c echo.Context, items any, page, pageSize int, total int64) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// recordLog appends a system log row and, for security events, fans the
// event out to the audit queue. Logging must never fail the request.
func recordLog(c echo.Context, logs *repository.LogRepo, logType string, userID *uint64, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := logs.Insert(ctx, logType, userID, msg, c.RealIP()); err != nil {
		log.Printf("system log insert failed: %v", err)
	}
	if logType == model.LogSecurity {
		ev := audit.Event{Type: logType, Message: msg, IP: c.RealIP()}
		if userID != nil {
			ev.UserID = *userID
		}
		_ = audit.Publish(ctx, ev)
	}
}

// fptr is a shorthand for optional numeric validation bounds.
func fptr(v float64) *float64 { return &v }
