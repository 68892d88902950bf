package handler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/form"
	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/repository"
)

// EmployeeHandler implements the owner-scoped employee CRUD. One rule set
// applies to both create and edit: contact phone and salary are optional,
// email is required, hire date cannot be in the future.
type EmployeeHandler struct {
	Employees *repository.EmployeeRepo
	Farms     *repository.FarmRepo
	Logs      *repository.LogRepo
}

func NewEmployeeHandler(employees *repository.EmployeeRepo, farms *repository.FarmRepo, logs *repository.LogRepo) *EmployeeHandler {
	return &EmployeeHandler{Employees: employees, Farms: farms, Logs: logs}
}

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)

func (h *EmployeeHandler) rules(ctx context.Context, uid uint64) map[string][]form.Rule {
	return map[string][]form.Rule{
		"farm_id": {form.Required("Farm"), form.OwnedRef("Farm", func(id uint64) (bool, error) {
			return h.Farms.Owns(ctx, id, uid)
		})},
		"first_name": {form.Required("First name"), form.MaxLength("First name", 64)},
		"last_name":  {form.Required("Last name"), form.MaxLength("Last name", 64)},
		"position":   {form.Required("Position"), form.MaxLength("Position", 64)},
		"contact":    {form.Regex(phoneRe, "Contact must be a valid phone number")},
		"email":      {form.Required("Email"), form.Email("Email")},
		"hire_date":  {form.Required("Hire date"), form.Date("Hire date", true, false)},
		"salary":     {form.NumericRange("Salary", fptr(0), nil)},
		"notes":      {form.MaxLength("Notes", 2000)},
	}
}

var employeeFields = []string{"farm_id", "first_name", "last_name", "position",
	"contact", "email", "hire_date", "salary", "notes"}

func employeeFromValues(v form.Values) *model.Employee {
	farmID, _ := strconv.ParseUint(strings.TrimSpace(v["farm_id"]), 10, 64)
	hireDate, _ := form.ParseDate(v["hire_date"])
	e := &model.Employee{
		FarmID:    farmID,
		FirstName: strings.TrimSpace(v["first_name"]),
		LastName:  strings.TrimSpace(v["last_name"]),
		Position:  strings.TrimSpace(v["position"]),
		Contact:   strings.TrimSpace(v["contact"]),
		Email:     strings.ToLower(strings.TrimSpace(v["email"])),
		HireDate:  hireDate,
		Notes:     strings.TrimSpace(v["notes"]),
	}
	if s := strings.TrimSpace(v["salary"]); s != "" {
		if salary, err := strconv.ParseFloat(s, 64); err == nil {
			e.Salary = &salary
		}
	}
	return e
}

// List handles GET /v1/employees?page=N&farm_id=F.
func (h *EmployeeHandler) List(c echo.Context) error {
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
	page := pageParam(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Employees.ListByOwner(ctx, uid, filter, page)
	if err != nil {
		return dbError(c, "list employees", err)
	}
	return listResponse(c, items, page, h.Employees.PageSize, total)
}

// Get handles GET /v1/employees/:id.
func (h *EmployeeHandler) Get(c echo.Context) error {
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

	employee, err := h.Employees.GetByIDForOwner(ctx, id, uid)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
	}
	if err != nil {
		return dbError(c, "get employee", err)
	}
	return c.JSON(http.StatusOK, employee)
}

// Create handles POST /v1/employees.
func (h *EmployeeHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	values := formValues(c, employeeFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}

	id, err := h.Employees.Insert(ctx, uid, employeeFromValues(values))
	if err != nil {
		return dbError(c, "create employee", err)
	}
	created, err := h.Employees.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload employee", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("employee %d registered", id))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Employee registered", "employee": created})
}

// Update handles POST /v1/employees/:id.
func (h *EmployeeHandler) Update(c echo.Context) error {
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

	values := formValues(c, employeeFields...)
	if errs := form.Validate(values, h.rules(ctx, uid)); !errs.Ok() {
		return validationFailed(c, errs, values)
	}
	if _, err := h.Employees.GetByIDForOwner(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return dbError(c, "load employee", err)
	}

	affected, err := h.Employees.Update(ctx, id, uid, employeeFromValues(values))
	if err != nil {
		return dbError(c, "update employee", err)
	}
	if affected == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes were made"})
	}
	updated, err := h.Employees.GetByIDForOwner(ctx, id, uid)
	if err != nil {
		return dbError(c, "reload employee", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Employee updated", "employee": updated})
}

// Delete handles POST /v1/employees/:id/delete.
func (h *EmployeeHandler) Delete(c echo.Context) error {
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

	if err := h.Employees.Delete(ctx, id, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return dbError(c, "delete employee", err)
	}
	recordLog(c, h.Logs, model.LogInfo, &uid, fmt.Sprintf("employee %d removed", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Employee removed"})
}
