package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

// SearchVolunteersCmd creates the searchVolunteers command
func SearchVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searchVolunteers",
		Short: "Search volunteers by skill, activity and role",
		Long: `Search volunteers by skill, activity and role.

A volunteer matches when they have any of the given skills, their active flag
equals --active and, when --role is given, their role equals it exactly.
Without --active only inactive volunteers are returned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skills, _ := cmd.Flags().GetStringSlice("skill")
			active, _ := cmd.Flags().GetBool("active")
			role, _ := cmd.Flags().GetString("role")

			q := model.SearchQuery{
				Skills: skills,
				Active: active,
				Role:   strings.TrimSpace(role),
			}

			app.Logger.Debug("searchVolunteers command",
				zap.Strings("skills", q.Skills),
				zap.Bool("active", q.Active),
				zap.String("role", q.Role))

			printVolunteers(cmd.OutOrStdout(), app.Service.SearchVolunteers(q))
			return nil
		},
	}

	cmd.Flags().StringSlice("skill", nil, "Skill to match (repeat or comma-separate for several)")
	cmd.Flags().Bool("active", false, "Match active volunteers instead of inactive ones")
	cmd.Flags().String("role", "", "Only match volunteers with exactly this role")

	return cmd
}
