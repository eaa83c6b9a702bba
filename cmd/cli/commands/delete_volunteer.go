package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteVolunteerCmd creates the deleteVolunteer command
func DeleteVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteVolunteer <id>",
		Short: "Remove a volunteer from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			volunteer, err := app.Service.GetVolunteerByID(id)
			if err != nil {
				return err
			}

			if err := app.Service.DeleteVolunteer(app.Ctx, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s (%s)\n", volunteer.FirstName, volunteer.LastName, id)
			return nil
		},
	}
}
