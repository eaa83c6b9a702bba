package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List every volunteer on the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers := app.Service.GetAllVolunteers()
			app.Logger.Debug("listVolunteers command", zap.Int("count", len(volunteers)))

			printVolunteers(cmd.OutOrStdout(), volunteers)
			return nil
		},
	}
}
