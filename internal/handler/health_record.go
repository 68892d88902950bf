package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// HealthRecordHandler implements the owner-scoped CRUD for animal health
// records. The animal_id selection must reference one of the caller's own
// animal batches.
type HealthRecordHandler struct {
	Records *repository.HealthRecordRepo
	Animals *repository.AnimalRepo
}

func NewHealthRecordHandler(records *repository.HealthRecordRepo, animals *repository.AnimalRepo) *HealthRecordHandler {
	return &HealthRecordHandler{Records: records, Animals: animals}
}

func (h *HealthRecordHandler) rules(ctx context.Context, uid uint64) map[string][]form.Rule {
	return map[string][]form.Rule{
		"animal_id": {form.Required("Animal"), form.OwnedRef("Animal", func(id uint64) (bool, error) {
			return h.Animals.Owns(ctx, id, uid)
		})},
		"record_date":  {form.Required("Date"), form.Date("Date", true, false)},
		"record_type":  {form.Required("Record type"), form.Enum("Record type", model.HealthRecordTypes...)},
		"description":  {form.Required("Description"), form.MaxLength("Description", 2000)},
		"performed_by": {form.MaxLength("Performed by", 128)},
		"notes":        {form.MaxLength("Notes", 2000)},
	}
}

var healthRecordFields = []string{"animal_id", "record_date", "record_type",
	"description", "performed_by", "notes"}

func healthRecordFromValues(v form.Values) *model.HealthRecord {
	animalID, _ := strconv.ParseUint(strings.TrimSpace(v["animal_id"]), 10, 64)
	date, _ := form.ParseDate(v["record_date"])
	return &model.HealthRecord{
		AnimalID:    animalID,
		Date:        date,
		Type:        strings.TrimSpace(v["record_type"]),
		Description: strings.TrimSpace(v["description"]),
		PerformedBy: strings.TrimSpace(v["performed_by"]),
		Notes:       strings.TrimSpace(v["notes"]),
	}
}

// List handles GET /v1/animal-health?page=N&animal_id=A&type=T.
func (h *HealthRecordHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var filter repository.Filter
	if a := strings.TrimSpace(c.QueryParam("animal_id")); a != "" {
		animalID, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal_id"})
		}
		filter = append(filter, repository.Cond{Col: "animal_id", Val: animalID})
	}
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
		filter = append(filter, repository.Cond{Col: "record_type", Val: t})
	}
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Records.ListByOwner(ctx, uid, filter, page)
	if err != nil {
		return dbError(c, "list health records", err)
	}
	return listResponse(c, items, page, h.Records.PageSize, total)
}

// Create handles POST /v1/animal-health.
func (h *HealthRecordHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	values := formValues(c, healthRecordFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	id, err := h.Records.Insert(ctx, uid, healthRecordFromValues(values))
	if err != nil {
		return dbError(c, "create health record", err)
	}
	created, err := h.Records.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload health record", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Health record added", "record": created})
}

// Update handles POST /v1/animal-health/:id.
func (h *HealthRecordHandler) Update(c echo.Context) error {
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

	values := formValues(c, healthRecordFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}
	if _, err := h.Records.GetByIDForOwner(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "health record not found"})
		}
		return dbError(c, "load health record", err)
	}

	affected, err := h.Records.Update(ctx, id, uid, healthRecordFromValues(values))
	if err != nil {
		return dbError(c, "update health record", err)
	}
	if affected == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes were made"})
	}
	updated, err := h.Records.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload health record", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Health record updated", "record": updated})
}

// Delete handles POST /v1/animal-health/:id/delete.
func (h *HealthRecordHandler) Delete(c echo.Context) error {
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

	if err := h.Records.Delete(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "health record not found"})
		}
		return dbError(c, "delete health record", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Health record deleted"})
}
