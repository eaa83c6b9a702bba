package services

import (
	"errors"
	"fmt"

	"github.com/jakechorley/volunteer-roster/pkg/store"
)

var (
	// ErrInvalidInput is returned when a volunteer fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when no volunteer has the requested ID
	ErrNotFound = errors.New("volunteer not found")
	// ErrPersistence is returned when the roster could not be written to its mirror
	ErrPersistence = store.ErrPersistence
)

// NotFoundError reports a lookup of an unknown volunteer ID
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("volunteer not found with id %s", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
