package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/internal/config"
	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/core/services"
	"github.com/jakechorley/volunteer-roster/pkg/store"
)

type memoryMirror struct {
	mu         sync.Mutex
	volunteers []model.Volunteer
}

func (m *memoryMirror) LoadVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneAll(m.volunteers), nil
}

func (m *memoryMirror) ReplaceVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volunteers = model.CloneAll(volunteers)
	return nil
}

type mockSource struct {
	volunteers []model.Volunteer
	err        error
	sheetID    string
	tab        string
}

func (m *mockSource) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error) {
	m.sheetID = spreadsheetID
	m.tab = tab
	return m.volunteers, m.err
}

func newTestApp(t *testing.T, volunteers ...model.Volunteer) *AppContext {
	t.Helper()
	ctx := context.Background()

	s := store.New(&memoryMirror{}, zap.NewNop(), store.Options{})
	for _, v := range volunteers {
		_, err := s.Save(ctx, v)
		require.NoError(t, err)
	}

	return &AppContext{
		Cfg:     config.Default(),
		Env:     "test",
		Service: services.NewVolunteerService(s, zap.NewNop()),
		Logger:  zap.NewNop(),
		Ctx:     ctx,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var (
	amara  = model.Volunteer{ID: "a", FirstName: "Amara", LastName: "Okafor", ContactNumber: "0701", Email: "amara@example.com", Role: "Accountant", Skills: []string{"Integrity"}}
	daniel = model.Volunteer{ID: "b", FirstName: "Daniel", LastName: "Mensah", ContactNumber: "0702", Email: "daniel@example.com", Role: "Greeter", Skills: []string{"Warmth"}, Active: true}
)

func TestListVolunteersCmd(t *testing.T) {
	app := newTestApp(t, amara, daniel)

	out, err := run(t, ListVolunteersCmd(app))
	require.NoError(t, err)

	assert.Contains(t, out, "Found 2 volunteers")
	assert.Contains(t, out, "- Amara Okafor (a) [Accountant] - inactive - amara@example.com - Integrity")
	assert.Contains(t, out, "- Daniel Mensah (b) [Greeter] - active - daniel@example.com - Warmth")
}

func TestListVolunteersCmd_Empty(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, ListVolunteersCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "No volunteers found.")
}

func TestSearchVolunteersCmd(t *testing.T) {
	app := newTestApp(t, amara, daniel)

	tests := []struct {
		name     string
		args     []string
		contains string
		excludes string
	}{
		{"defaults to inactive", nil, "Amara", "Daniel"},
		{"active flag", []string{"--active"}, "Daniel", "Amara"},
		{"skill and role", []string{"--skill", "Integrity", "--role", "Accountant"}, "Amara", "Daniel"},
		{"comma separated skills", []string{"--skill", "Warmth,Integrity", "--active"}, "Daniel", "Amara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, SearchVolunteersCmd(app), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
			assert.NotContains(t, out, tt.excludes)
		})
	}
}

func TestSearchVolunteersCmd_RoleWithNoMatches(t *testing.T) {
	app := newTestApp(t, amara, daniel)

	out, err := run(t, SearchVolunteersCmd(app), "--skill", "Integrity", "--role", "Greeter")
	require.NoError(t, err)
	assert.Contains(t, out, "No volunteers found.")
}

func TestDeleteVolunteerCmd(t *testing.T) {
	app := newTestApp(t, amara, daniel)

	out, err := run(t, DeleteVolunteerCmd(app), "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Amara Okafor (a)")
	assert.Len(t, app.Service.GetAllVolunteers(), 1)

	_, err = run(t, DeleteVolunteerCmd(app), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestImportVolunteersCmd(t *testing.T) {
	app := newTestApp(t)
	app.Cfg.Sheets = config.SheetsConfig{VolunteerSheetID: "sheet123", VolunteersTab: "Volunteers"}

	invalid := daniel
	invalid.ID = ""
	invalid.Email = "nope"
	source := &mockSource{volunteers: []model.Volunteer{amara, invalid}}
	app.NewVolunteerSource = func(ctx context.Context) (VolunteerSource, error) {
		return source, nil
	}

	out, err := run(t, ImportVolunteersCmd(app))
	require.NoError(t, err)

	assert.Equal(t, "sheet123", source.sheetID)
	assert.Equal(t, "Volunteers", source.tab)
	assert.Contains(t, out, "Imported 1 volunteers")
	assert.Contains(t, out, "Skipped 1 invalid rows")
	assert.Contains(t, out, "email has an invalid format")
	assert.Len(t, app.Service.GetAllVolunteers(), 1)
}

func TestImportVolunteersCmd_RequiresSheetsConfig(t *testing.T) {
	app := newTestApp(t)
	app.NewVolunteerSource = func(ctx context.Context) (VolunteerSource, error) {
		t.Fatal("source must not be created without sheets config")
		return nil, nil
	}

	_, err := run(t, ImportVolunteersCmd(app))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets.volunteerSheetID")
}

func TestImportVolunteersCmd_SourceError(t *testing.T) {
	app := newTestApp(t)
	app.Cfg.Sheets = config.SheetsConfig{VolunteerSheetID: "sheet123", VolunteersTab: "Volunteers"}
	app.NewVolunteerSource = func(ctx context.Context) (VolunteerSource, error) {
		return &mockSource{err: errors.New("quota exceeded")}, nil
	}

	_, err := run(t, ImportVolunteersCmd(app))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

// fakeServer blocks in Run until Shutdown is called
type fakeServer struct {
	runErr   error
	stopped  chan struct{}
	shutdown bool
}

func (f *fakeServer) Run(addr string) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdown = true
	close(f.stopped)
	return nil
}

func TestServeUntilDone_GracefulShutdown(t *testing.T) {
	app := newTestApp(t)
	app.Cfg.Server.ShutdownTimeout = time.Second
	server := &fakeServer{stopped: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serveUntilDone(ctx, server, ":0", app)
	require.NoError(t, err)
	assert.True(t, server.shutdown)
}

func TestServeUntilDone_RunFailure(t *testing.T) {
	app := newTestApp(t)
	server := &fakeServer{runErr: errors.New("address already in use"), stopped: make(chan struct{})}

	err := serveUntilDone(context.Background(), server, ":8080", app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.False(t, server.shutdown)
}
