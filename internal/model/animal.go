package model

import "time"

// Animal represents a batch of animals sharing the same attributes, not a
// single individual: Quantity is the batch size. UserID duplicates the
// owning farm's user_id so owner-scoped queries need no join.
type Animal struct {
	ID               uint64
	UserID           uint64
	FarmID           uint64
	Type             string
	Breed            string
	Purpose          string
	Quantity         int64
	RegistrationDate time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MaxAnimalQuantity bounds the batch size accepted by the animal form.
const MaxAnimalQuantity = 1000
