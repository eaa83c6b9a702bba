package db

import (
	"context"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

// VolunteerMirror defines the durable copy of the volunteer roster.
// Both the JSON file mirror and postgres.DB implement this interface.
type VolunteerMirror interface {
	// LoadVolunteers returns the persisted roster. An absent or empty mirror
	// returns an empty slice and no error.
	LoadVolunteers(ctx context.Context) ([]model.Volunteer, error)
	// ReplaceVolunteers overwrites the persisted roster with the given collection
	ReplaceVolunteers(ctx context.Context, volunteers []model.Volunteer) error
}
