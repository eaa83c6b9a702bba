package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/db"
	"github.com/jakechorley/volunteer-roster/pkg/store"
)

// mockMirror implements db.VolunteerMirror for testing
type mockMirror struct {
	mu         sync.Mutex
	volunteers []model.Volunteer
	failWrites bool
	writes     int
}

func (m *mockMirror) LoadVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneAll(m.volunteers), nil
}

func (m *mockMirror) ReplaceVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrites {
		return errors.New("disk unavailable")
	}
	m.volunteers = model.CloneAll(volunteers)
	return nil
}

func (m *mockMirror) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func validVolunteer() model.Volunteer {
	return model.Volunteer{
		FirstName:     "Grace",
		LastName:      "Hopper",
		ContactNumber: "07700900001",
		Email:         "grace@example.com",
		Role:          "Treasurer",
		Skills:        []string{"Integrity"},
		Active:        true,
	}
}

// newTestService returns a service over a store preloaded with the given volunteers
func newTestService(t *testing.T, volunteers ...model.Volunteer) (*VolunteerService, *mockMirror) {
	t.Helper()
	mirror := &mockMirror{}
	s := store.New(mirror, zap.NewNop(), store.Options{})
	for _, v := range volunteers {
		_, err := s.Save(context.Background(), v)
		require.NoError(t, err)
	}
	mirror.writes = 0
	return NewVolunteerService(s, zap.NewNop()), mirror
}

func TestCreateVolunteer_GeneratesID(t *testing.T) {
	svc, mirror := newTestService(t)

	created, err := svc.CreateVolunteer(context.Background(), validVolunteer())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Grace", created.FirstName)
	assert.Equal(t, 1, mirror.writeCount())

	found, err := svc.GetVolunteerByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestCreateVolunteer_KeepsSuppliedID(t *testing.T) {
	svc, _ := newTestService(t)

	v := validVolunteer()
	v.ID = "caller-chosen-id"

	created, err := svc.CreateVolunteer(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "caller-chosen-id", created.ID)
}

func TestCreateVolunteer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *model.Volunteer)
		message string
	}{
		{"missing first name", func(v *model.Volunteer) { v.FirstName = "" }, "firstName is required"},
		{"blank last name", func(v *model.Volunteer) { v.LastName = "   " }, "lastName is required"},
		{"missing contact number", func(v *model.Volunteer) { v.ContactNumber = "" }, "contactNumber is required"},
		{"missing email", func(v *model.Volunteer) { v.Email = "" }, "email is required"},
		{"malformed email", func(v *model.Volunteer) { v.Email = "grace.example.com" }, "email has an invalid format"},
		{"email with space", func(v *model.Volunteer) { v.Email = "grace hopper@example.com" }, "email has an invalid format"},
		{"bad date of birth", func(v *model.Volunteer) { v.DateOfBirth = "09/12/1906" }, "dateOfBirth must be a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mirror := newTestService(t)
			v := validVolunteer()
			tt.mutate(&v)

			_, err := svc.CreateVolunteer(context.Background(), v)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, 0, mirror.writeCount())
			assert.Empty(t, svc.GetAllVolunteers())
		})
	}
}

func TestCreateVolunteer_FirstFailingFieldIsReported(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateVolunteer(context.Background(), model.Volunteer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firstName is required")
}

func TestCreateVolunteer_PersistenceFailure(t *testing.T) {
	svc, mirror := newTestService(t)
	mirror.failWrites = true

	_, err := svc.CreateVolunteer(context.Background(), validVolunteer())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateVolunteer_MergesPopulatedFields(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "vol-1"
	existing.DateJoined = "2020-01-05"
	svc, mirror := newTestService(t, existing)

	patch := model.Volunteer{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		ContactNumber: "07700900999",
		Email:         "ada@example.com",
		Role:          "",  // blank: keep Treasurer
		Skills:        nil, // absent: keep Integrity
		Active:        false,
	}

	updated, err := svc.UpdateVolunteer(context.Background(), "vol-1", patch)
	require.NoError(t, err)

	assert.Equal(t, "vol-1", updated.ID)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, "07700900999", updated.ContactNumber)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, "Treasurer", updated.Role)
	assert.Equal(t, []string{"Integrity"}, updated.Skills)
	assert.Equal(t, "2020-01-05", updated.DateJoined)
	assert.False(t, updated.Active)
	assert.Equal(t, 1, mirror.writeCount())

	stored, err := svc.GetVolunteerByID("vol-1")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateVolunteer_ReplacesRoleAndSkills(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "vol-1"
	svc, _ := newTestService(t, existing)

	patch := validVolunteer()
	patch.Role = "Greeter"
	patch.Skills = []string{"Warmth", "Hospitality"}

	updated, err := svc.UpdateVolunteer(context.Background(), "vol-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "Greeter", updated.Role)
	assert.Equal(t, []string{"Warmth", "Hospitality"}, updated.Skills)
}

func TestUpdateVolunteer_IDNeverChanges(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "vol-1"
	svc, _ := newTestService(t, existing)

	patch := model.Volunteer{
		ID:            "vol-2",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		ContactNumber: "07700900999",
		Email:         "ada@example.com",
		Role:          "Greeter",
		Skills:        []string{"Warmth"},
		Active:        false,
		DateOfBirth:   "1815-12-10",
		DateJoined:    "2024-02-02",
	}

	updated, err := svc.UpdateVolunteer(context.Background(), "vol-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "vol-1", updated.ID)

	_, err = svc.GetVolunteerByID("vol-2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, svc.GetAllVolunteers(), 1)
}

func TestUpdateVolunteer_ValidatesPatchBeforeLookup(t *testing.T) {
	svc, mirror := newTestService(t)

	patch := validVolunteer()
	patch.Email = ""

	_, err := svc.UpdateVolunteer(context.Background(), "missing", patch)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, mirror.writeCount())
}

func TestUpdateVolunteer_DoesNotAliasPatchSkills(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "vol-1"
	svc, _ := newTestService(t, existing)

	patch := validVolunteer()
	patch.Skills = []string{"Warmth"}

	_, err := svc.UpdateVolunteer(context.Background(), "vol-1", patch)
	require.NoError(t, err)
	patch.Skills[0] = "Changed"

	stored, err := svc.GetVolunteerByID("vol-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Warmth"}, stored.Skills)
}

func TestNotFound_NoMutation(t *testing.T) {
	existing := validVolunteer()
	existing.ID = "vol-1"
	svc, mirror := newTestService(t, existing)
	ctx := context.Background()

	_, err := svc.GetVolunteerByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateVolunteer(ctx, "missing", validVolunteer())
	assert.ErrorIs(t, err, ErrNotFound)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)

	err = svc.DeleteVolunteer(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, mirror.writeCount())
	assert.Len(t, svc.GetAllVolunteers(), 1)
}

func TestDeleteVolunteer(t *testing.T) {
	a := validVolunteer()
	a.ID = "vol-1"
	b := validVolunteer()
	b.ID = "vol-2"
	svc, mirror := newTestService(t, a, b)

	require.NoError(t, svc.DeleteVolunteer(context.Background(), "vol-1"))

	all := svc.GetAllVolunteers()
	require.Len(t, all, 1)
	assert.Equal(t, "vol-2", all[0].ID)
	assert.Equal(t, 1, mirror.writeCount())

	_, err := svc.GetVolunteerByID("vol-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchVolunteers_Scenario(t *testing.T) {
	a := model.Volunteer{ID: "a", FirstName: "Amara", Role: "Accountant", Skills: []string{"Integrity"}, Active: false}
	b := model.Volunteer{ID: "b", FirstName: "Daniel", Role: "Greeter", Skills: []string{"Warmth"}, Active: true}
	svc, _ := newTestService(t, a, b)

	results := svc.SearchVolunteers(model.SearchQuery{Skills: []string{"Integrity"}, Active: false, Role: "Accountant"})
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)

	results = svc.SearchVolunteers(model.SearchQuery{Skills: []string{}, Active: true})
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}

func TestMergeVolunteer_BlankFieldsKeepExisting(t *testing.T) {
	existing := model.Volunteer{
		ID:            "vol-1",
		FirstName:     "Grace",
		LastName:      "Hopper",
		ContactNumber: "07700900001",
		Email:         "grace@example.com",
		Role:          "Treasurer",
		Skills:        []string{"Integrity"},
		Active:        true,
		DateOfBirth:   "1906-12-09",
		DateJoined:    "2020-01-05",
	}

	merged := mergeVolunteer(existing, model.Volunteer{
		FirstName:     "  ",
		ContactNumber: "\t",
		Skills:        []string{},
		Active:        false,
	})

	expected := existing
	expected.Active = false
	assert.Equal(t, expected, merged)
}

func TestMergeVolunteer_ActiveAlwaysReplaced(t *testing.T) {
	merged := mergeVolunteer(model.Volunteer{Active: false}, model.Volunteer{Active: true})
	assert.True(t, merged.Active)

	merged = mergeVolunteer(model.Volunteer{Active: true}, model.Volunteer{})
	assert.False(t, merged.Active)
}

func TestCreateVolunteer_ConcurrentCreatesAllPersisted(t *testing.T) {
	ctx := context.Background()
	mirror := db.NewJSONFile(filepath.Join(t.TempDir(), "volunteers.json"))
	svc := NewVolunteerService(store.New(mirror, zap.NewNop(), store.Options{}), zap.NewNop())

	const n = 40
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := validVolunteer()
			v.FirstName = fmt.Sprintf("Volunteer %d", i)
			created, err := svc.CreateVolunteer(ctx, v)
			if assert.NoError(t, err) {
				ids <- created.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	distinct := make(map[string]bool)
	for id := range ids {
		distinct[id] = true
	}
	assert.Len(t, distinct, n)

	persisted, err := mirror.LoadVolunteers(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, n)
}
