package model

import "time"

// Employee represents a row in the `employees` table. Contact and Salary
// are optional; Salary is nil when unset. UserID duplicates the owning
// farm's user_id.
type Employee struct {
	ID        uint64
	UserID    uint64
	FarmID    uint64
	FirstName string
	LastName  string
	Position  string
	Contact   string
	Email     string
	HireDate  time.Time
	Salary    *float64
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
