package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// AnimalHandler implements the owner-scoped CRUD for animal batches. The
// farm_id selection is validated against the caller's own farms, and the
// stored row carries the owner id copied from the session, keeping the
// denormalized user_id in sync with the farm's owner.
type AnimalHandler struct {
	Animals *repository.AnimalRepo
	Farms   *repository.FarmRepo
	Logs    *repository.LogRepo
}

func NewAnimalHandler(animals *repository.AnimalRepo, farms *repository.FarmRepo, logs *repository.LogRepo) *AnimalHandler {
	return &AnimalHandler{Animals: animals, Farms: farms, Logs: logs}
}

func (h *AnimalHandler) rules(ctx context.Context, uid uint64) map[string][]form.Rule {
	return map[string][]form.Rule{
		"farm_id": {form.Required("Farm"), form.OwnedRef("Farm", func(id uint64) (bool, error) {
			return h.Farms.Owns(ctx, id, uid)
		})},
		"animal_type":       {form.Required("Animal type"), form.MaxLength("Animal type", 64)},
		"breed":             {form.Required("Breed"), form.MaxLength("Breed", 64)},
		"purpose":           {form.Required("Purpose"), form.MaxLength("Purpose", 64)},
		"quantity":          {form.Required("Quantity"), form.IntRange("Quantity", 1, model.MaxAnimalQuantity)},
		"registration_date": {form.Required("Registration date"), form.Date("Registration date", true, false)},
		"notes":             {form.MaxLength("Notes", 2000)},
	}
}

var animalFields = []string{"farm_id", "animal_type", "breed", "purpose",
	"quantity", "registration_date", "notes"}

func animalFromValues(v form.Values) *model.Animal {
	farmID, _ := strconv.ParseUint(strings.TrimSpace(v["farm_id"]), 10, 64)
	quantity, _ := strconv.ParseInt(strings.TrimSpace(v["quantity"]), 10, 64)
	date, _ := form.ParseDate(v["registration_date"])
	return &model.Animal{
		FarmID:           farmID,
		Type:             strings.TrimSpace(v["animal_type"]),
		Breed:            strings.TrimSpace(v["breed"]),
		Purpose:          strings.TrimSpace(v["purpose"]),
		Quantity:         quantity,
		RegistrationDate: date,
		Notes:            strings.TrimSpace(v["notes"]),
	}
}

// List handles GET /v1/animals?page=N&farm_id=F&type=T.
func (h *AnimalHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var filter repository.Filter
	if f := strings.TrimSpace(c.QueryParam("farm_id")); f != "" {
		farmID, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid farm_id"})
		}
		filter = append(filter, repository.Cond{Col: "farm_id", Val: farmID})
	}
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
		filter = append(filter, repository.Cond{Col: "animal_type", Val: t})
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Animals.ListByOwner(ctx, uid, filter, page)
	if err != nil {
		return dbError(c, "list animals", err)
	}
	return listResponse(c, items, page, h.Animals.PageSize, total)
}

// Get handles GET /v1/animals/:id.
func (h *AnimalHandler) Get(c echo.Context) error {
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

	animal, err := h.Animals.GetByIDForOwner(ctx, id, uid)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
	}
	if err != nil {
		return dbError(c, "get animal", err)
	}
	return c.JSON(http.StatusOK, animal)
}

// Create handles POST /v1/animals.
func (h *AnimalHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	values := formValues(c, animalFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	id, err := h.Animals.Insert(ctx, uid, animalFromValues(values))
	if err != nil {
		return dbError(c, "create animal", err)
	}
	created, err := h.Animals.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload animal", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("animal batch %d registered", id))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Animals registered", "animal": created})
}

// Update handles POST /v1/animals/:id.
func (h *AnimalHandler) Update(c echo.Context) error {
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

	values := formValues(c, animalFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}
	if _, err := h.Animals.GetByIDForOwner(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return dbError(c, "load animal", err)
	}

	affected, err := h.Animals.Update(ctx, id, uid, animalFromValues(values))
	if err != nil {
		return dbError(c, "update animal", err)
	}
	if affected == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes were made"})
	}
	updated, err := h.Animals.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload animal", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Animals updated", "animal": updated})
}

// Delete handles POST /v1/animals/:id/delete.
func (h *AnimalHandler) Delete(c echo.Context) error {
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

	if err := h.Animals.Delete(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return dbError(c, "delete animal", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("animal batch %d deleted", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Animals deleted"})
}
