package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

func TestImportVolunteers_SkipsInvalidRows(t *testing.T) {
	svc, _ := newTestService(t)

	good := validVolunteer()
	good.ID = "sheet-1"
	bad := validVolunteer()
	bad.ID = "sheet-2"
	bad.FirstName = "Alan"
	bad.LastName = "Turing"
	bad.Email = "not-an-email"

	result, err := svc.ImportVolunteers(context.Background(), []model.Volunteer{good, bad})
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	assert.Equal(t, "sheet-1", result.Imported[0].ID)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Alan Turing", result.Failed[0].VolunteerName)
	assert.Equal(t, "not-an-email", result.Failed[0].Email)
	assert.Contains(t, result.Failed[0].Error, "email has an invalid format")

	assert.Len(t, svc.GetAllVolunteers(), 1)
}

func TestImportVolunteers_UpsertsByID(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "sheet-1"
	existing.Role = "Treasurer"
	svc, _ := newTestService(t, existing)

	incoming := validVolunteer()
	incoming.ID = "sheet-1"
	incoming.Role = "Greeter"

	result, err := svc.ImportVolunteers(context.Background(), []model.Volunteer{incoming})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)

	all := svc.GetAllVolunteers()
	require.Len(t, all, 1)
	assert.Equal(t, "Greeter", all[0].Role)
}

func TestImportVolunteers_StopsOnPersistenceFailure(t *testing.T) {
	svc, mirror := newTestService(t)
	mirror.failWrites = true

	_, err := svc.ImportVolunteers(context.Background(), []model.Volunteer{validVolunteer(), validVolunteer()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	// Two attempts for the first volunteer, none for the second
	assert.Equal(t, 2, mirror.writeCount())
}
