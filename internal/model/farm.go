package model

import "time"

// FarmTypes lists the suggested farm classifications. The column is an open
// string: unknown values are accepted, these are offered in the form UI.
var FarmTypes = []string{"Dairy", "Crop", "Livestock", "Mixed", "Poultry", "Other"}

// Farm represents a row in the `farms` table. Each farm belongs to exactly
// one user and may have dependent animals and employees, which block
// deletion while they exist.
type Farm struct {
	ID          uint64
	UserID      uint64
	Name        string
	Location    string
	Size        float64 // acres
	Type        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
