package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/internal/config"
	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/core/services"
	"github.com/jakechorley/volunteer-roster/pkg/metrics"
)

// VolunteerSource lists volunteers held outside the roster, such as the
// volunteer sheet. *sheetsclient.Client implements this interface.
type VolunteerSource interface {
	ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error)
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg     *config.Config
	Env     string
	Service *services.VolunteerService
	Metrics *metrics.Collector
	Logger  *zap.Logger
	Ctx     context.Context

	// NewVolunteerSource is called only by importVolunteers so that other
	// commands never start the OAuth flow
	NewVolunteerSource func(ctx context.Context) (VolunteerSource, error)
}

// printVolunteers writes one line per volunteer
func printVolunteers(w io.Writer, volunteers []model.Volunteer) {
	if len(volunteers) == 0 {
		fmt.Fprintln(w, "No volunteers found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d volunteers:\n\n", len(volunteers))
	for _, v := range volunteers {
		status := "inactive"
		if v.Active {
			status = "active"
		}
		role := ""
		if v.HasRole() {
			role = fmt.Sprintf(" [%s]", v.Role)
		}
		skills := ""
		if len(v.Skills) > 0 {
			skills = " - " + strings.Join(v.Skills, ", ")
		}
		fmt.Fprintf(w, "- %s %s (%s)%s - %s - %s%s\n",
			v.FirstName,
			v.LastName,
			v.ID,
			role,
			status,
			v.Email,
			skills,
		)
	}
}
