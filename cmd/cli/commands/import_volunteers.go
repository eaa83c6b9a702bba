package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ImportVolunteersCmd creates the importVolunteers command
func ImportVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importVolunteers",
		Short: "Import volunteers from the volunteer sheet",
		Long: `Import volunteers from the configured Google Sheet.

Rows are upserted by their Unique ID column; rows without one get a new ID.
Rows that fail validation are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Cfg.RequireSheets(); err != nil {
				return err
			}

			source, err := app.NewVolunteerSource(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to connect to volunteer sheet: %w", err)
			}

			volunteers, err := source.ListVolunteers(app.Ctx, app.Cfg.Sheets.VolunteerSheetID, app.Cfg.Sheets.VolunteersTab)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			app.Logger.Info("Volunteers fetched from sheet", zap.Int("count", len(volunteers)))

			result, err := app.Service.ImportVolunteers(app.Ctx, volunteers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nImported %d volunteers\n", len(result.Imported))
			for _, v := range result.Imported {
				fmt.Fprintf(out, "  + %s %s (%s)\n", v.FirstName, v.LastName, v.ID)
			}

			if len(result.Failed) > 0 {
				fmt.Fprintf(out, "\nSkipped %d invalid rows:\n", len(result.Failed))
				for _, f := range result.Failed {
					fmt.Fprintf(out, "  x %s (%s): %s\n", f.VolunteerName, f.Email, f.Error)
				}
			}

			return nil
		},
	}
}
