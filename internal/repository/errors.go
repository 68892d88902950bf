// Package repository contains all data access logic, separated from HTTP
// handlers. Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting driver errors. A row that exists but belongs
// to another user is reported as ErrNotFound so the API never leaks the
// existence of other users' data.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row does not exist for the requesting
// owner, whether it is truly absent or owned by someone else.
var ErrNotFound = errors.New("not found")

// ErrInvalidRole is returned when a role change references a role id that
// does not exist.
var ErrInvalidRole = errors.New("invalid role")

// ErrProtected is returned when an update targets a protected system
// setting.
var ErrProtected = errors.New("setting is protected")

// ErrEmailExists and ErrUsernameExists report unique-key violations on
// user registration.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// HasDependentsError blocks a farm delete while dependent rows exist. The
// counts are surfaced to the user so the message can name what blocks the
// delete.
type HasDependentsError struct {
	Animals   int64
	Employees int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("farm has dependents: %d animal(s), %d employee(s)", e.Animals, e.Employees)
}
