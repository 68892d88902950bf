package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// FarmHandler implements the owner-scoped farm CRUD.
type FarmHandler struct {
	Farms *repository.FarmRepo
	Logs  *repository.LogRepo
}

func NewFarmHandler(farms *repository.FarmRepo, logs *repository.LogRepo) *FarmHandler {
	return &FarmHandler{Farms: farms, Logs: logs}
}

var farmRules = map[string][]form.Rule{
	"farm_name":   {form.Required("Farm name"), form.MaxLength("Farm name", 128)},
	"location":    {form.Required("Location"), form.MaxLength("Location", 255)},
	"size":        {form.Required("Size"), form.NumericRange("Size", fptr(0.01), fptr(1000000))},
	"farm_type":   {form.Required("Farm type"), form.MaxLength("Farm type", 64)},
	"description": {form.MaxLength("Description", 2000)},
}

func farmFromValues(v form.Values) *model.Farm {
	size, _ := strconv.ParseFloat(strings.TrimSpace(v["size"]), 64)
	return &model.Farm{
		Name:        strings.TrimSpace(v["farm_name"]),
		Location:    strings.TrimSpace(v["location"]),
		Size:        size,
		Type:        strings.TrimSpace(v["farm_type"]),
		Description: strings.TrimSpace(v["description"]),
	}
}

// List handles GET /v1/farms?page=N&type=T.
func (h *FarmHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var filter repository.Filter
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
		filter = repository.Filter{{Col: "farm_type", Val: t}}
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Farms.ListByOwner(ctx, uid, filter, page)
	if err != nil {
		return dbError(c, "list farms", err)
	}
	return listResponse(c, items, page, h.Farms.PageSize, total)
}

// Get handles GET /v1/farms/:id.
func (h *FarmHandler) Get(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	farm, err := h.Farms.GetByIDForOwner(ctx, id, uid)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "farm not found"})
	}
	if err != nil {
		return dbError(c, "get farm", err)
	}
	return c.JSON(http.StatusOK, farm)
}

// Create handles POST /v1/farms.
func (h *FarmHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	values := formValues(c, "farm_name", "location", "size", "farm_type", "description")
	if errs := form.Validate(values, farmRules); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	farm := farmFromValues(values)
	id, err := h.Farms.Insert(ctx, uid, farm)
	if err != nil {
		return dbError(c, "create farm", err)
	}
	created, err := h.Farms.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload farm", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("farm %d registered", id))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Farm registered", "farm": created})
}

// Update handles POST /v1/farms/:id.
func (h *FarmHandler) Update(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	values := formValues(c, "farm_name", "location", "size", "farm_type", "description")
	if errs := form.Validate(values, farmRules); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Farms.GetByIDForOwner(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "farm not found"})
		}
		return dbError(c, "load farm", err)
	}
	affected, err := h.Farms.Update(ctx, id, uid, farmFromValues(values))
	if err != nil {
		return dbError(c, "update farm", err)
	}
	if affected == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes were made"})
	}
	updated, err := h.Farms.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload farm", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Farm updated", "farm": updated})
}

// Delete handles POST /v1/farms/:id/delete. A farm with animals or
// employees cannot be deleted; the response names the blocking counts.
func (h *FarmHandler) Delete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Farms.Delete(ctx, id, uid)
	var dep *repository.HasDependentsError
	switch {
	case err == nil:
		recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("farm %d deleted", id))
		return c.JSON(http.StatusOK, echo.Map{"message": "Farm deleted"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "farm not found"})
	case errors.As(err, &dep):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": fmt.Sprintf("Cannot delete farm: %d animal(s) and %d employee(s) are still registered to it",
				dep.Animals, dep.Employees),
		})
	default:
		return dbError(c, "delete farm", err)
	}
}
