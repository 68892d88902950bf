package repository

import (
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// employeeSchema maps model.Employee onto the employees table. Contact is
// optional free text; salary is nullable and passed through as *float64.
var employeeSchema = Schema[model.Employee]{
	Table:    "employees",
	OwnerCol: "user_id",
	Cols: []string{"farm_id", "first_name", "last_name", "position", "contact",
		"email", "hire_date", "salary", "notes"},
	Values: func(e *model.Employee) []any {
		return []any{e.FarmID, e.FirstName, e.LastName, e.Position, e.Contact,
			e.Email, e.HireDate, e.Salary, e.Notes}
	},
	Scan: func(row RowScanner) (*model.Employee, error) {
		var e model.Employee
		var contact, notes sql.NullString
		var salary sql.NullFloat64
		if err := row.Scan(&e.ID, &e.UserID, &e.FarmID, &e.FirstName, &e.LastName,
			&e.Position, &contact, &e.Email, &e.HireDate, &salary, &notes,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Contact = contact.String
		e.Notes = notes.String
		if salary.Valid {
			v := salary.Float64
			e.Salary = &v
		}
		return &e, nil
	},
}

// EmployeeRepo provides owner-scoped persistence for farm employees.
type EmployeeRepo struct {
	*Owned[model.Employee]
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{Owned: NewOwned(db, employeeSchema, 20)}
}
